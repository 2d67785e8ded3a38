package http

import (
	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type createTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Deadline    string          `json:"deadline"`
	AssignedTo  string          `json:"assignedTo"`
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type authResponse struct {
	Message      string       `json:"message"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type taskListResponse struct {
	Message string             `json:"message"`
	Total   int                `json:"total"`
	Tasks   []*models.TaskView `json:"tasks"`
}

func badBody() error {
	return common.Detail(common.ErrorValidation, "Invalid request body")
}

// session returns the caller's session. Routes using it sit behind
// Authenticate, so a missing session is a wiring error.
func session(c *fiber.Ctx) (*Session, error) {
	s, ok := SessionFrom(c)
	if !ok {
		return nil, common.Detail(common.ErrorUnauthorized, "Not authorized")
	}
	return s, nil
}

func (s *HTTPServer) ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "OK"})
}

func (s *HTTPServer) signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	res, err := s.users.Signup(c.UserContext(), services.SignupInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "user signed up", "user_id", res.User.ID, "role", res.User.Role)
	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Message:      "User created!",
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         res.User,
	})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	res, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(authResponse{
		Message:      "Login successful",
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         res.User,
	})
}

func (s *HTTPServer) refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	pair, err := s.users.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

func (s *HTTPServer) logout(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody()
		}
	}

	if err := s.users.Logout(c.UserContext(), sess.User.ID, req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (s *HTTPServer) me(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User fetched", "user": sess.User})
}

func (s *HTTPServer) myTasks(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	tasks, err := s.tasks.ListTasksForUser(c.UserContext(), sess.User)
	if err != nil {
		return err
	}
	return c.JSON(taskListResponse{Message: "My tasks fetched", Total: len(tasks), Tasks: nonNil(tasks)})
}

func (s *HTTPServer) myStats(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	st, err := s.tasks.StatsForUser(c.UserContext(), sess.User)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *HTTPServer) updateStatus(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	task, err := s.tasks.UpdateStatus(c.UserContext(), sess.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "task status updated", "task_id", task.ID, "status", task.Status)
	return c.JSON(fiber.Map{"message": "Task status updated", "task": task})
}

func (s *HTTPServer) allUsers(c *fiber.Ctx) error {
	users, err := s.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *HTTPServer) createTask(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	deadline, err := services.ParseDeadline(req.Deadline)
	if err != nil {
		return err
	}

	task, err := s.tasks.CreateTask(c.UserContext(), sess.User, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    deadline,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}

	s.logger.Info(c.UserContext(), "task created", "task_id", task.ID, "assigned_to", task.AssignedTo)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Task created", "task": task})
}

func (s *HTTPServer) managerTasks(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	tasks, err := s.tasks.ListTasksForManager(c.UserContext(), sess.User)
	if err != nil {
		return err
	}
	return c.JSON(taskListResponse{Message: "Manager tasks fetched", Total: len(tasks), Tasks: nonNil(tasks)})
}

func (s *HTTPServer) managerStats(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	st, err := s.tasks.StatsForManager(c.UserContext(), sess.User)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *HTTPServer) contact(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	if _, err := s.contacts.Submit(c.UserContext(), sess.User, services.ContactInput{
		Name: req.Name, Email: req.Email, Message: req.Message,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Message sent"})
}

func (s *HTTPServer) upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return common.Detail(common.ErrorValidation, "No file provided")
	}

	f, err := fh.Open()
	if err != nil {
		return common.Detail(common.ErrorValidation, "No file provided")
	}
	defer f.Close()

	res, err := s.uploads.Upload(c.UserContext(), fh.Filename, fh.Header.Get(fiber.HeaderContentType), fh.Size, f)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func nonNil(tasks []*models.TaskView) []*models.TaskView {
	if tasks == nil {
		return []*models.TaskView{}
	}
	return tasks
}
