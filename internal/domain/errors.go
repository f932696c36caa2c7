package domain

import (
	"errors"
	"fmt"
)

var ErrMalformedResponse = errors.New("malformed response: missing results")

// AuthError reports a failed getAuthorize call. Status is zero when the
// request never got an HTTP answer.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("authorize: status %d: %s", e.Status, e.Body)
	case e.Err != nil:
		return "authorize: " + e.Err.Error()
	default:
		return "authorize failed"
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports a failed sales query.
type FetchError struct {
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch sales: status %d: %s", e.Status, e.Body)
	case e.Err != nil:
		return "fetch sales: " + e.Err.Error()
	default:
		return "fetch sales failed"
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError blocks a request before it is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
