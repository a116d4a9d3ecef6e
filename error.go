package switchback

import "errors"

var (
	ErrBadConfig  = errors.New("bad config")
	ErrBadFormat  = errors.New("bad format")
	ErrNotExist   = errors.New("not exist")
	ErrNotValid   = errors.New("invalid")
	ErrUnexpected = errors.New("unexpected")
)
