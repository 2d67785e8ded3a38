// Package refreshtokens declares the session (refresh token) repository
// contract and its PostgreSQL, MongoDB and in-memory implementations.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID expiring at expires.
	Create(ctx context.Context, userID string, token string, expires time.Time) error

	// Find looks up a refresh token by its opaque token string and returns its metadata.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string. It returns
	// common.ErrorNotFound when nothing was removed, so of two callers racing
	// to delete the same token only one succeeds.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every token that expired before now and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
