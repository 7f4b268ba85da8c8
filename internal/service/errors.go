package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyShared      = errors.New("already shared with this admin")
	ErrInvalidTarget      = errors.New("share target must be another active admin")
	ErrSelfAction         = errors.New("cannot delete or suspend your own account")
	ErrProtected          = errors.New("the bootstrap administrator account is protected")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrContactExists      = errors.New("a contact with this phone number belongs to another admin")
	ErrSuspended          = errors.New("account is suspended")
)

// ValidationError reports a field that failed a domain rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
