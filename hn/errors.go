package hn

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks network failures and non-success HTTP statuses.
	ErrTransport = errors.New("transport error")
	// ErrDecode marks response bodies that are not the expected JSON.
	ErrDecode = errors.New("decode error")
	// ErrNotFound is returned when a thread root does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrUnknownFeed is returned for a feed kind without an endpoint.
	ErrUnknownFeed = errors.New("unknown feed")
)

// Error describes a failed request. Kind is ErrTransport or ErrDecode, so
// callers can use errors.Is on either the kind or the underlying cause.
type Error struct {
	URL    string
	Method string
	Status int
	Body   string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newError(kind error, method, url string, status int, body string, err error) *Error {
	return &Error{
		URL:    url,
		Method: method,
		Status: status,
		Body:   body,
		Kind:   kind,
		Err:    err,
	}
}
