package httpadapter

import (
	"net/http"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/infrastructure/resilience"
)

// Duplicate names and class mismatches are conflicts, not plain validation
// failures, so they are checked before the validation family.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrDuplicateName),
		domain.IsKind(err, domain.ErrWrongClass):
		return http.StatusConflict
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrForbidden):
		return http.StatusForbidden
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case resilience.IsCircuitOpen(err):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrProcessingFailed),
		domain.IsKind(err, domain.ErrNoResponse),
		domain.IsKind(err, domain.ErrUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
