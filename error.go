package secrets

import "errors"

var (
	ErrBadConfig     = errors.New("bad config")
	ErrExists        = errors.New("already exists")
	ErrMissingData   = errors.New("missing data")
	ErrNotFound      = errors.New("not found")
	ErrNotValid      = errors.New("invalid")
	ErrUnaddressable = errors.New("unaddressable")
	ErrUnexpected    = errors.New("unexpected")
)
