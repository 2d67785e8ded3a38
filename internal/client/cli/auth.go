package cli

import (
	"context"
	"errors"
	"log"

	"github.com/dmitrijs2005/tasklane/internal/client/client"
	"github.com/dmitrijs2005/tasklane/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for name, email, password and role, creates the account
// and starts a session for it. An empty role means "user".
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Enter role (user/manager) [user]", a.out)
	if err != nil {
		return err
	}
	if role == "" {
		role = "user"
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	user, err := a.client.Signup(ctx, name, email, string(password), role)
	if err != nil {
		return err
	}

	a.setUser(user)
	a.printf("Account created, signed in as %s (%s)\n", user.Email, user.Role)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	user, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.setUser(user)
	a.setMode(ModeOnline)
	a.printf("Login successful, welcome %s\n", user.Name)
	return nil
}

// Logout revokes the session on the server, forgets the local user and
// drops the offline task cache.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	if a.cache != nil {
		if err := a.cache.Clear(ctx); err != nil {
			log.Printf("error clearing task cache: %s", err.Error())
		}
	}

	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	err := a.client.Logout(callCtx)
	a.setUser(nil)
	if err != nil {
		return err
	}

	a.printf("Logged out\n")
	return nil
}

// Me prints the signed-in account as the server sees it.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	a.setUser(user)
	a.printf("%s <%s>\nrole: %s\nid:   %s\n", user.Name, user.Email, user.Role, user.ID)
	return nil
}
