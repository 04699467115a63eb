// Package services contains server-side business logic: the account
// workflow (signup, signin, refresh) and owner-scoped task operations.
//
// Services return the sentinels from package common (ErrorConflict,
// ErrorUnauthorized, ErrorNotFound, ErrorValidation). Anything else is
// wrapped with common.ErrorInternal and keeps the underlying cause for logs.
package services

import (
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, err)
}
