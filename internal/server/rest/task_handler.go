package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

var taskErrors = map[error]string{
	common.ErrorNotFound:     detailNotFound,
	common.ErrorValidation:   "title cannot be empty",
	common.ErrorUnauthorized: detailNotAuth,
}

// taskID parses the {id} path parameter, writing 422 on failure.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "task id must be an integer")
		return 0, false
	}
	return id, true
}

// ListTasks handles GET /api/tasks.
func (a *API) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())

	list, err := a.tasks.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, a.logger, err, taskErrors)
		return
	}

	writeJSON(w, http.StatusOK, newTaskListResponse(list))
}

// CreateTask handles POST /api/tasks.
func (a *API) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())

	var req taskRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := a.tasks.Create(r.Context(), owner, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, a.logger, err, taskErrors)
		return
	}

	writeJSON(w, http.StatusCreated, newTaskResponse(task))
}

// GetTask handles GET /api/tasks/{id}.
func (a *API) GetTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := a.tasks.Get(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, a.logger, err, taskErrors)
		return
	}

	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}.
func (a *API) UpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := a.tasks.Update(r.Context(), owner, id, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, a.logger, err, taskErrors)
		return
	}

	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

// ToggleTask handles PATCH /api/tasks/{id}/toggle.
func (a *API) ToggleTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := a.tasks.Toggle(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, r, a.logger, err, taskErrors)
		return
	}

	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (a *API) DeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.IdentityFromContext(r.Context())
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := a.tasks.Delete(r.Context(), owner, id); err != nil {
		writeServiceError(w, r, a.logger, err, taskErrors)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
