// Package users declares the user repository contract and its PostgreSQL,
// MongoDB and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

// Repository persists accounts. Lookups of absent users return
// common.ErrorNotFound; Create returns common.ErrorAlreadyExists when the
// email is already registered.
type Repository interface {
	// Create stores user and returns it with ID populated.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// List returns every user ordered by name.
	List(ctx context.Context) ([]*models.User, error)
}
