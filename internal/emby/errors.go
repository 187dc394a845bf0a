package emby

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by every call made before a successful Login.
	ErrNotAuthenticated = errors.New("not logged in to the media server")
	// ErrInvalidArgument marks rejections made before any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks lookups that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a playlist name that is already taken.
	ErrConflict = errors.New("conflict")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// kindError carries an operator-facing message and a sentinel kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func invalidf(format string, args ...any) error {
	return &kindError{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}
