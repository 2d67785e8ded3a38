package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/client/client"
	"github.com/dmitrijs2005/tasklane/internal/client/config"
	"github.com/dmitrijs2005/tasklane/internal/client/models"
	"github.com/dmitrijs2005/tasklane/internal/client/repositories/taskcache"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	client client.Client
	cache  taskcache.Repository
	closer func() error
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mu   sync.RWMutex
	user *models.User
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	apiClient, err := client.NewTaskLaneClient(c.ServerEndpointAddr, c.HTTPEndpointURL)
	if err != nil {
		return nil, err
	}

	app := newApp(c, apiClient, os.Stdin, os.Stdout)

	if c.CacheDSN != "" {
		repos, err := client.InitDatabase(ctx, c.CacheDSN)
		if err != nil {
			log.Printf("error initializing task cache: %s", err.Error())
			_ = apiClient.Close()
			return nil, err
		}
		app.cache = repos.Tasks
		app.closer = repos.Close
	}

	return app, nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, reader: bufio.NewReader(in), out: out, now: time.Now}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.client.Close(); err != nil {
			log.Printf("error closing client: %s", err.Error())
		}
		if a.closer != nil {
			if err := a.closer(); err != nil {
				log.Printf("error closing task cache: %s", err.Error())
			}
		}
	}()
	a.Root(ctx)
}

// callCtx bounds a single remote call by the configured request timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) currentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = u
}

func (a *App) isLoggedIn() bool {
	return a.currentUser() != nil
}

func (a *App) isManager() bool {
	u := a.currentUser()
	return u != nil && u.Role == "manager"
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

// checkOnline pings the server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
