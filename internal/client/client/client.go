package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/tasklane/internal/client/models"
	"github.com/dmitrijs2005/tasklane/internal/netx"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Signup(ctx context.Context, name, email, password, role string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	LoggedIn() bool
	Me(ctx context.Context) (*models.User, error)
	ListMyTasks(ctx context.Context) ([]*models.Task, error)
	ListManagerTasks(ctx context.Context) ([]*models.Task, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateTask(ctx context.Context, t models.NewTask) (*models.Task, error)
	UpdateStatus(ctx context.Context, taskID, status string) (*models.Task, error)
	SendContact(ctx context.Context, name, email, message string) error
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*netx.UploadedFile, error)
}
