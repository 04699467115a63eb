package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
)

const (
	detailInternal       = "Internal server error"
	detailInvalidJSON    = "Invalid JSON format"
	detailNotFound       = "Task not found"
	detailNotAuth        = "Not authenticated"
	detailInvalidToken   = "Invalid or expired token"
	detailBadCredentials = "Invalid email or password"
	detailBadRefresh     = "Invalid or expired refresh token"
	detailEmailTaken     = "Email already registered"
	detailSignedOut      = "Successfully signed out"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// errorStatus maps service sentinels onto HTTP codes. Order matters only for
// errors that wrap more than one sentinel.
var errorStatus = []struct {
	err    error
	status int
}{
	{common.ErrorValidation, http.StatusUnprocessableEntity},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrorConflict, http.StatusConflict},
}

// writeServiceError answers with the status of the sentinel err matches and
// the detail registered for it in details. Unmatched errors are logged and
// reported as an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error, details map[error]string) {
	for _, e := range errorStatus {
		if !errors.Is(err, e.err) {
			continue
		}
		detail, ok := details[e.err]
		if !ok {
			detail = http.StatusText(e.status)
		}
		if e.status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", common.BearerScheme)
		}
		writeError(w, e.status, detail)
		return
	}

	log.Error(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, detailInternal)
}
