package admin

import (
	"errors"

	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
)

var (
	ErrNotLoggedIn        = errors.New("admin login required")
	ErrSessionExpired     = errors.New("admin session expired, please log in again")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrStatusRequired     = errors.New("please select a status")
	ErrProofNotFound      = errors.New("payment proof not found")
)

// ActionError is a failed status change. It keeps what the admin submitted
// so the client can reopen the action dialog as it was.
type ActionError struct {
	Request ActionRequest
	Current string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Submitted returns the echoed form values.
func (e *ActionError) Submitted() map[string]string {
	out := map[string]string{
		"status":        e.Request.Status,
		"admin_remarks": e.Request.AdminRemarks,
	}
	if e.Current != "" {
		out["current_status"] = e.Current
	}
	return out
}

// layoutError reports a theater layout problem as field errors.
func layoutError(field, msg string) error {
	return &booking.ValidationError{Fields: map[string]string{field: msg}}
}
