package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// TaskService runs task operations on behalf of a verified identity. The
// owner is always taken from auth.Identity and passed to the repository,
// which filters on it in the same statement as the task ID.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores a new, not completed task for owner.
func (s *TaskService) Create(ctx context.Context, owner auth.Identity, title string, description *string) (*models.Task, error) {
	if owner.IsZero() {
		return nil, common.ErrorUnauthorized
	}
	title, ok := normalizeTitle(title)
	if !ok {
		return nil, common.ErrorValidation
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		UserID:      owner.UserID(),
		Title:       title,
		Description: normalizeDescription(description),
	})
	if err != nil {
		return nil, internalError("create task", err)
	}
	return task, nil
}

// List returns owner's tasks; an owner without tasks gets an empty slice.
func (s *TaskService) List(ctx context.Context, owner auth.Identity) ([]*models.Task, error) {
	if owner.IsZero() {
		return nil, common.ErrorUnauthorized
	}

	list, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, owner.UserID())
	if err != nil {
		return nil, internalError("list tasks", err)
	}
	return list, nil
}

func (s *TaskService) Get(ctx context.Context, owner auth.Identity, id int64) (*models.Task, error) {
	if owner.IsZero() {
		return nil, common.ErrorUnauthorized
	}

	task, err := s.repomanager.Tasks(s.db).GetByIDAndOwner(ctx, id, owner.UserID())
	return scoped("get task", task, err)
}

// Update replaces title and description. A nil or blank description clears it.
func (s *TaskService) Update(ctx context.Context, owner auth.Identity, id int64, title string, description *string) (*models.Task, error) {
	if owner.IsZero() {
		return nil, common.ErrorUnauthorized
	}
	title, ok := normalizeTitle(title)
	if !ok {
		return nil, common.ErrorValidation
	}

	task, err := s.repomanager.Tasks(s.db).Update(ctx, &models.Task{
		ID:          id,
		UserID:      owner.UserID(),
		Title:       title,
		Description: normalizeDescription(description),
	})
	return scoped("update task", task, err)
}

// Toggle flips the completed flag.
func (s *TaskService) Toggle(ctx context.Context, owner auth.Identity, id int64) (*models.Task, error) {
	if owner.IsZero() {
		return nil, common.ErrorUnauthorized
	}

	task, err := s.repomanager.Tasks(s.db).Toggle(ctx, id, owner.UserID())
	return scoped("toggle task", task, err)
}

func (s *TaskService) Delete(ctx context.Context, owner auth.Identity, id int64) error {
	if owner.IsZero() {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Tasks(s.db).Delete(ctx, id, owner.UserID()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return internalError("delete task", err)
	}
	return nil
}

// scoped passes NotFound through untouched so a foreign task and a missing
// one look the same to the caller.
func scoped[T any](op string, v T, err error) (T, error) {
	var zero T
	if err == nil {
		return v, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return zero, common.ErrorNotFound
	}
	return zero, internalError(op, err)
}

func normalizeTitle(title string) (string, bool) {
	title = strings.TrimSpace(title)
	return title, title != ""
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	return &d
}
