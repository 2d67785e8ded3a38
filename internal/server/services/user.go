// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, session rotation and the identity
// check behind both API middlewares.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/auth"
	"github.com/dmitrijs2005/tasklane/internal/server/config"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
)

const (
	minNameLength     = 3
	minPasswordLength = 6
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User   *models.User
	Tokens *TokenPair
}

// SignupInput carries the signup form.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// UserService provides account operations:
// - Signup / Login: create or verify an account and open a session
// - Refresh / Logout: rotate or destroy a session
// - Authenticate: resolve an access token to a user
type UserService struct {
	repomanager                  repomanager.RepositoryManager
	hasher                       *auth.PasswordHasher
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                  m,
		hasher:                       auth.NewPasswordHasher(cfg.BcryptCost),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(in *SignupInput) error {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return common.Detail(common.ErrorValidation, "All fields are required")
	}
	if utf8.RuneCountInString(in.Name) < minNameLength {
		return common.Detail(common.ErrorValidation, "Name too short")
	}
	if !strings.Contains(in.Email, "@") {
		return common.Detail(common.ErrorValidation, "Invalid email")
	}
	if len(in.Password) < minPasswordLength {
		return common.Detail(common.ErrorValidation, "Password too short")
	}
	if !in.Role.Valid() {
		return common.Detail(common.ErrorValidation, "Role must be user or manager")
	}
	return nil
}

// Signup creates an account and opens its first session. The user and the
// session are written in one transaction.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validateSignup(&in); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	}

	var pair *TokenPair
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if _, err := r.Users().Create(ctx, user); err != nil {
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, r, user.ID)
		return genErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.Detail(common.ErrorAlreadyExists, "User already exists")
		}
		return nil, fmt.Errorf("%w: signup: %v", common.ErrorInternal, err)
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login verifies the credentials and, on success, opens a new session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.Detail(common.ErrorValidation, "All fields are required")
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Detail(common.ErrorUnauthorized, "Invalid credentials")
		}
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.Detail(common.ErrorUnauthorized, "Invalid credentials")
	}

	pair, err := s.generateTokenPair(ctx, s.repomanager, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
// The lookup and the delete share the transaction, and a delete that
// removes nothing aborts it, so a token is rotated at most once.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.Detail(common.ErrorUnauthorized, "Refresh token required")
	}

	var pair *TokenPair
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		token, err := r.RefreshTokens().Find(ctx, refreshToken)
		if err != nil {
			return err
		}
		if token.Expires.Before(s.now()) {
			return common.ErrRefreshTokenExpired
		}
		if err := r.RefreshTokens().Delete(ctx, refreshToken); err != nil {
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, r, token.UserID)
		return genErr
	})
	switch {
	case err == nil:
		return pair, nil
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.Detail(common.ErrorUnauthorized, "Invalid refresh token")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return nil, fmt.Errorf("%w: %w", common.Detail(common.ErrorUnauthorized, "Refresh token expired"), common.ErrRefreshTokenExpired)
	default:
		return nil, fmt.Errorf("%w: rotate refresh token: %v", common.ErrorInternal, err)
	}
}

// Logout destroys userID's session. Unknown tokens and tokens that belong
// to another account are ignored.
func (s *UserService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		token, err := r.RefreshTokens().Find(ctx, refreshToken)
		if err != nil {
			return err
		}
		if token.UserID != userID {
			return nil
		}
		return r.RefreshTokens().Delete(ctx, refreshToken)
	})
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: delete refresh token: %v", common.ErrorInternal, err)
	}
	return nil
}

// Authenticate resolves an access token to the user it is bound to. Any
// token failure, or a user that no longer exists, is ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, common.Detail(common.ErrorUnauthorized, "Not authorized, no token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.Detail(common.ErrorUnauthorized, common.TokenExpiredMessage), err)
		}
		return nil, fmt.Errorf("%w: %w", common.Detail(common.ErrorUnauthorized, "Not authorized, token failed"), err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Detail(common.ErrorUnauthorized, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// GetUser returns the user with id, or ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !s.repomanager.ValidID(id) {
		return nil, common.ErrorNotFound
	}
	user, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// ListUsers returns every account ordered by name.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", common.ErrorInternal, err)
	}
	return users, nil
}

// SweepSessions deletes the sessions that expired before now.
func (s *UserService) SweepSessions(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens().DeleteExpired(ctx, s.now())
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, r repomanager.Repositories, userID string) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := r.RefreshTokens().Create(ctx, userID, refresh, s.now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, fmt.Errorf("%w: store refresh token: %v", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
