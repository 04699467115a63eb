package tasks

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository persists tasks. Every lookup or mutation of an existing task
// takes the owner's user ID and matches it together with the task ID, so a
// task owned by someone else is reported as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByOwner(ctx context.Context, userID int64) ([]*models.Task, error)
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Toggle(ctx context.Context, id, userID int64) (*models.Task, error)
	Delete(ctx context.Context, id, userID int64) error
}
