package session

import "errors"

var (
	// ErrNotValid marks a session value of an unexpected type.
	ErrNotValid = errors.New("not valid")

	// ErrNoUser marks a session no user has been registered in.
	ErrNoUser = errors.New("no user")
)
