package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/server/config"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errDBDown = errors.New("db down")

// clock is a settable time source for services under test.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time {
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		BcryptCost:                   bcrypt.MinCost,
	}
}

func newUserService(t *testing.T, m repomanager.RepositoryManager, c *clock) *UserService {
	t.Helper()
	s := NewUserService(m, testConfig())
	s.now = c.Now
	return s
}

func signup(t *testing.T, s *UserService, name string, role models.Role) *AuthResult {
	t.Helper()
	res, err := s.Signup(context.Background(), SignupInput{
		Name: name, Email: name + "@example.com", Password: "secret1", Role: role,
	})
	require.NoError(t, err)
	return res
}

// failingUsers fails every call.
type failingUsers struct{}

func (failingUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errDBDown
}

func (failingUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errDBDown
}

func (failingUsers) GetByID(context.Context, string) (*models.User, error) {
	return nil, errDBDown
}

func (failingUsers) List(context.Context) ([]*models.User, error) {
	return nil, errDBDown
}

// brokenUsersManager is a memory manager whose user repository is down.
type brokenUsersManager struct {
	*repomanager.MemoryRepositoryManager
}

func (brokenUsersManager) Users() users.Repository {
	return failingUsers{}
}

func (b brokenUsersManager) WithTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	return b.MemoryRepositoryManager.WithTx(ctx, func(ctx context.Context, _ repomanager.Repositories) error {
		return fn(ctx, b)
	})
}
