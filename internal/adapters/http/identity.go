package httpadapter

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// userIDHeader identifies the caller. Authentication itself lives at the
// gateway in front of this service; the header arrives already verified.
const userIDHeader = "X-User-Id"

type identity struct {
	users ports.UserRepository
}

// resolve returns the calling user, or nil when the request is anonymous.
func (id identity) resolve(r *http.Request) (*domain.User, error) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		return nil, nil
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errBadUserHeader
	}
	user, err := id.users.GetByID(r.Context(), userID)
	if err != nil {
		if domain.IsKind(err, domain.ErrUserNotFound) {
			return nil, errUnknownUser
		}
		return nil, err
	}
	return user, nil
}

var (
	errBadUserHeader = &identityError{message: "invalid " + userIDHeader + " header"}
	errUnknownUser   = &identityError{message: "unknown user"}
)

type identityError struct {
	message string
}

func (e *identityError) Error() string { return e.message }
