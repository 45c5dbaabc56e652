// Package errs defines the error taxonomy shared by the feedback intake and
// redemption flows. Handlers map kinds to HTTP statuses; core packages only
// ever tag errors with a kind and a user-facing message.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation: malformed or missing required field. Recovered locally,
	// blocks the transition, message shown inline.
	KindValidation Kind = iota
	// KindCooldown: device submitted too recently. Transient notice, no retry
	// needed, no collaborator was contacted.
	KindCooldown
	// KindNotFound: bill or feedback lookup miss.
	KindNotFound
	// KindConflict: bill already claimed.
	KindConflict
	// KindTransient: network/storage failure. Surfaced verbatim, never
	// retried automatically; the user re-triggers the action.
	KindTransient
)

type Error struct {
	Kind  Kind
	Msg   string
	Field string // offending field for validation errors, optional
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

func Cooldown(msg string) *Error {
	return &Error{Kind: KindCooldown, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// HTTPStatus maps an error to the status code handlers respond with.
// Untagged errors are treated as internal.
func HTTPStatus(err error) int {
	switch k, ok := KindOf(err); {
	case !ok:
		return http.StatusInternalServerError
	case k == KindValidation:
		return http.StatusBadRequest
	case k == KindCooldown:
		return http.StatusTooManyRequests
	case k == KindNotFound:
		return http.StatusNotFound
	case k == KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
