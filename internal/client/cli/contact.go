package cli

import (
	"context"

	"github.com/dmitrijs2005/tasklane/internal/client/client"
)

// Contact sends a message to the support inbox as the signed-in user.
func (a *App) Contact(ctx context.Context) error {
	u := a.currentUser()
	if u == nil {
		return client.ErrNotLoggedIn
	}

	message, err := GetMultiline(a.reader, "Enter your message", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.SendContact(ctx, u.Name, u.Email, message); err != nil {
		return err
	}

	a.printf("Message sent\n")
	return nil
}
