// Package contacts stores messages submitted through the contact form.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

type Repository interface {
	// Create stores msg and returns it with ID populated.
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
}
