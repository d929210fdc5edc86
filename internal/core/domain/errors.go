package domain

import (
	"errors"
	"fmt"
)

// Name validation failures, checked in order; the first one wins.
var (
	ErrNameEmpty           = errors.New("model name is empty")
	ErrNameTooShort        = errors.New("model name is too short")
	ErrNameForbiddenScript = errors.New("model name contains forbidden script")
	ErrDuplicateName       = errors.New("model name already exists")
)

var (
	ErrInvalidFile      = errors.New("invalid manual file")
	ErrProcessingFailed = errors.New("external processing failed")
	ErrNoResponse       = errors.New("no response from processing service")
	ErrUnreachable      = errors.New("processing service unreachable")
	ErrStorage          = errors.New("storage failure")
	ErrNotReadable      = errors.New("stored file not readable")
	ErrForbidden        = errors.New("operation not permitted")
	ErrWrongClass       = errors.New("wrong model class for this operation")
)

var (
	ErrModelNotFound    = errors.New("model not found")
	ErrManualNotFound   = errors.New("manual not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// IsValidation reports whether err belongs to the validation family:
// bad names and bad files, never retried, always reported to the caller.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameEmpty) ||
		errors.Is(err, ErrNameTooShort) ||
		errors.Is(err, ErrNameForbiddenScript) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInvalidFile)
}

// IsNotFound reports whether err is a missing-entity error of any kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrManualNotFound) ||
		errors.Is(err, ErrBrandNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
