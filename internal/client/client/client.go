package client

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error

	Signup(ctx context.Context, email, password, name string) (*models.Session, error)
	Signin(ctx context.Context, email, password string) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Signout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, accessToken string) (*models.User, error)

	ListTasks(ctx context.Context, accessToken string) ([]*models.Task, error)
	CreateTask(ctx context.Context, accessToken string, in models.TaskInput) (*models.Task, error)
	GetTask(ctx context.Context, accessToken string, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, accessToken string, id int64, in models.TaskInput) (*models.Task, error)
	ToggleTask(ctx context.Context, accessToken string, id int64) (*models.Task, error)
	DeleteTask(ctx context.Context, accessToken string, id int64) error
}
