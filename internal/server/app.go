// Package server wires the TaskLane server: storage, services, the HTTP and
// gRPC transports, and background jobs. It also handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/dmitrijs2005/tasklane/internal/server/config"
	"github.com/dmitrijs2005/tasklane/internal/server/ratelimit"
	"github.com/dmitrijs2005/tasklane/internal/server/relay"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasklane/internal/server/scheduler"
	"github.com/dmitrijs2005/tasklane/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/tasklane/internal/server/grpc"
	hs "github.com/dmitrijs2005/tasklane/internal/server/http"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	redis          *redis.Client
	limiter        ratelimit.Limiter
	userService    *services.UserService
	taskService    *services.TaskService
	contactService *services.ContactService
	uploadService  *services.UploadService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	workflow, err := services.NewWorkflow(c.Workflow)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var r relay.Relay = relay.Noop{}
	if c.TelegramToken != "" {
		tr, err := relay.NewTelegramRelay(c.TelegramToken, c.TelegramChatID)
		if err != nil {
			_ = rm.Close(ctx)
			return nil, err
		}
		r = tr
	}

	app := &App{
		config:         c,
		logger:         logger,
		repomanager:    rm,
		userService:    services.NewUserService(rm, c),
		taskService:    services.NewTaskService(rm, workflow),
		contactService: services.NewContactService(rm, r, logger.With("module", "contact")),
		uploadService:  services.NewUploadService(c),
	}

	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		app.limiter = ratelimit.NewSlidingWindow(app.redis, "tasklane:ratelimit:", c.RateLimit, c.RateWindow)
	}

	logger.Info(ctx, "App initialized", "storage", c.Storage, "workflow", workflow.Name(), "rate_limit", app.limiter != nil)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.taskService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, hs.Services{
		Users:    app.userService,
		Tasks:    app.taskService,
		Contacts: app.contactService,
		Uploads:  app.uploadService,
	}, app.limiter)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startScheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	sch := scheduler.New(app.logger.With("module", "scheduler"))
	if _, err := sch.Schedule(app.config.SessionSweepSpec, "session_sweep", scheduler.SweepSessions(app.userService, app.logger)); err != nil {
		return nil, err
	}
	sch.Start()
	app.logger.Info(ctx, "Scheduler started", "session_sweep", app.config.SessionSweepSpec)
	return sch, nil
}

// Run serves until a termination signal arrives or parent is cancelled,
// then stops the transports and the scheduler and releases connections.
func (app *App) Run(parent context.Context) {

	ctx, cancelFunc := context.WithCancel(parent)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	sch, err := app.startScheduler(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sch != nil {
		sch.Stop(shutdownCtx)
	}
	app.close(shutdownCtx)

	app.logger.Info(shutdownCtx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	if err := app.repomanager.Close(ctx); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}
