package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/client/client"
	"github.com/dmitrijs2005/tasklane/internal/client/models"
)

var errUsage = errors.New("wrong arguments")

// Tasks lists the tasks relevant to the signed-in role: the ones assigned to
// a user, or the ones created by a manager. Fresh listings are cached; when
// the server is unreachable the cached listing is shown instead.
func (a *App) Tasks(ctx context.Context) error {
	u := a.currentUser()
	if u == nil {
		return client.ErrNotLoggedIn
	}

	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	var (
		tasks []*models.Task
		err   error
	)
	if a.isManager() {
		tasks, err = a.client.ListManagerTasks(callCtx)
	} else {
		tasks, err = a.client.ListMyTasks(callCtx)
	}

	switch {
	case err == nil:
		if a.cache != nil {
			if cerr := a.cache.Replace(ctx, u.ID, tasks, a.now()); cerr != nil {
				log.Printf("error caching tasks: %s", cerr.Error())
			}
		}
	case errors.Is(err, client.ErrUnavailable) && a.cache != nil:
		a.setMode(ModeOffline)
		var cachedAt time.Time
		tasks, cachedAt, err = a.cache.List(ctx, u.ID)
		if err != nil {
			return err
		}
		if cachedAt.IsZero() {
			return client.ErrUnavailable
		}
		a.printf("Server unavailable, showing tasks cached at %s\n", cachedAt.Local().Format(DeadlineLayout))
	default:
		return err
	}

	if len(tasks) == 0 {
		a.printf("No tasks\n")
		return nil
	}

	now := a.now()
	for _, t := range tasks {
		a.printf("%s\n", t.Summary(now))
	}
	a.printf("Total: %d\n", len(tasks))
	return nil
}

// Users lists every account. Managers only.
func (a *App) Users(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		a.printf("%s  %-8s %s <%s>\n", u.ID, u.Role, u.Name, u.Email)
	}
	return nil
}

// Create prompts for the task fields and creates it. The assignee may be
// given as an id or an email address.
func (a *App) Create(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}

	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	priority, err := getSimpleText(a.reader, "Enter priority (low/medium/high) [medium]", a.out)
	if err != nil {
		return err
	}

	rawDeadline, err := getSimpleText(a.reader, fmt.Sprintf("Enter deadline (%s)", DeadlineLayout), a.out)
	if err != nil {
		return err
	}
	deadline, err := ParseDeadline(rawDeadline)
	if err != nil {
		return err
	}

	assignee, err := getSimpleText(a.reader, "Assign to (user id or email)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	assigneeID, err := a.resolveUser(ctx, assignee)
	if err != nil {
		return err
	}

	task, err := a.client.CreateTask(ctx, models.NewTask{
		Title:       title,
		Description: description,
		Priority:    priority,
		Deadline:    deadline,
		AssignedTo:  assigneeID,
	})
	if err != nil {
		return err
	}

	a.printf("Task created: %s\n", task.ID)
	return nil
}

func (a *App) resolveUser(ctx context.Context, ref string) (string, error) {
	if !strings.Contains(ref, "@") {
		return ref, nil
	}

	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, ref) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no user with email %s", client.ErrNotFound, ref)
}

// Status sets the status of one of the user's tasks: status <task-id> <status>.
func (a *App) Status(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}
	if len(args) != 2 {
		printlnFn("Usage: status <task-id> <status>")
		return errUsage
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	task, err := a.client.UpdateStatus(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	a.printf("Task %s is now %s\n", task.ID, task.Status)
	return nil
}
