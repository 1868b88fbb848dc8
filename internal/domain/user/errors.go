package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrNotApproved     = errors.New("user is not approved")
	ErrCannotSelfAdmin = errors.New("cannot change your own access")
)
