package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// ErrEmptyTitle is returned before any request is made for a blank title.
var ErrEmptyTitle = errors.New("title must not be empty")

// TaskService covers the task operations of the signed-in user.
type TaskService interface {
	List(ctx context.Context) ([]*models.Task, error)
	Create(ctx context.Context, title, description string) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, id int64, title, description string) (*models.Task, error)
	Toggle(ctx context.Context, id int64) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	client  client.Client
	session *Session
}

// NewTaskService binds a TaskService to c and the shared session.
func NewTaskService(c client.Client, session *Session) TaskService {
	return &taskService{client: c, session: session}
}

func (t *taskService) List(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := withAccess(ctx, t.client, t.session, func(access string) error {
		var err error
		tasks, err = t.client.ListTasks(ctx, access)
		return err
	})
	return tasks, err
}

func (t *taskService) Create(ctx context.Context, title, description string) (*models.Task, error) {
	in, err := taskInput(title, description)
	if err != nil {
		return nil, err
	}
	return t.one(ctx, func(access string) (*models.Task, error) {
		return t.client.CreateTask(ctx, access, in)
	})
}

func (t *taskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	return t.one(ctx, func(access string) (*models.Task, error) {
		return t.client.GetTask(ctx, access, id)
	})
}

// Update replaces title and description. An empty description clears it.
func (t *taskService) Update(ctx context.Context, id int64, title, description string) (*models.Task, error) {
	in, err := taskInput(title, description)
	if err != nil {
		return nil, err
	}
	return t.one(ctx, func(access string) (*models.Task, error) {
		return t.client.UpdateTask(ctx, access, id, in)
	})
}

func (t *taskService) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	return t.one(ctx, func(access string) (*models.Task, error) {
		return t.client.ToggleTask(ctx, access, id)
	})
}

func (t *taskService) Delete(ctx context.Context, id int64) error {
	return withAccess(ctx, t.client, t.session, func(access string) error {
		return t.client.DeleteTask(ctx, access, id)
	})
}

func (t *taskService) one(ctx context.Context, call func(access string) (*models.Task, error)) (*models.Task, error) {
	var task *models.Task
	err := withAccess(ctx, t.client, t.session, func(access string) error {
		var err error
		task, err = call(access)
		return err
	})
	return task, err
}

func taskInput(title, description string) (models.TaskInput, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.TaskInput{}, ErrEmptyTitle
	}
	in := models.TaskInput{Title: title}
	if d := strings.TrimSpace(description); d != "" {
		in.Description = &d
	}
	return in, nil
}
