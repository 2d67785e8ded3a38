// Package http exposes the TaskLane JSON API over fiber.
package http

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/ratelimit"
	"github.com/dmitrijs2005/tasklane/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// BodyLimit caps every request body, uploads included.
const BodyLimit = services.MaxUploadSize

type userSvc interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type taskSvc interface {
	CreateTask(ctx context.Context, manager *models.User, in services.CreateTaskInput) (*models.Task, error)
	ListTasksForUser(ctx context.Context, user *models.User) ([]*models.TaskView, error)
	ListTasksForManager(ctx context.Context, manager *models.User) ([]*models.TaskView, error)
	UpdateStatus(ctx context.Context, user *models.User, taskID string, status models.Status) (*models.Task, error)
	StatsForUser(ctx context.Context, user *models.User) (*models.TaskStats, error)
	StatsForManager(ctx context.Context, manager *models.User) (*models.TaskStats, error)
}

type contactSvc interface {
	Submit(ctx context.Context, sender *models.User, in services.ContactInput) (*models.ContactMessage, error)
}

type uploadSvc interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*services.UploadResult, error)
}

// Services are the collaborators the handlers call.
type Services struct {
	Users    userSvc
	Tasks    taskSvc
	Contacts contactSvc
	Uploads  uploadSvc
}

type HTTPServer struct {
	address  string
	app      *fiber.App
	logger   logging.Logger
	users    userSvc
	tasks    taskSvc
	contacts contactSvc
	uploads  uploadSvc
	limiter  ratelimit.Limiter
}

// NewHTTPServer builds the fiber app and its routes. A nil limiter turns
// rate limiting off.
func NewHTTPServer(a string, l logging.Logger, svc Services, limiter ratelimit.Limiter) *HTTPServer {
	s := &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		users:    svc.Users,
		tasks:    svc.Tasks,
		contacts: svc.Contacts,
		uploads:  svc.Uploads,
		limiter:  limiter,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "tasklane",
		DisableStartupMessage: true,
		BodyLimit:             BodyLimit,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(s.accessLog)
	s.routes()

	return s
}

// App returns the underlying fiber app.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

func (s *HTTPServer) routes() {
	api := s.app.Group("/api")
	api.Get("/ping", s.ping)

	limited := s.rateLimit()

	a := api.Group("/auth")
	a.Post("/signup", limited, s.signup)
	a.Post("/login", limited, s.login)
	a.Post("/refresh", limited, s.refresh)
	a.Post("/logout", Authenticate(s.users), s.logout)

	u := api.Group("/users", Authenticate(s.users))
	u.Get("/me", s.me)
	u.Get("/mytasks", Authorize(models.RoleUser), s.myTasks)
	u.Get("/mystats", Authorize(models.RoleUser), s.myStats)
	u.Patch("/:id/status", Authorize(models.RoleUser), s.updateStatus)

	m := api.Group("/manager", Authenticate(s.users), Authorize(models.RoleManager))
	m.Get("/allusers", s.allUsers)
	m.Post("/create", s.createTask)
	m.Get("/mytasks", s.managerTasks)
	m.Get("/mystats", s.managerStats)

	api.Post("/contact", Authenticate(s.users), limited, s.contact)
	api.Post("/uploadbyuser", s.upload)
}

func (s *HTTPServer) rateLimit() fiber.Handler {
	if s.limiter == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return ratelimit.Middleware(s.limiter, s.logger)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listener(listen); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
