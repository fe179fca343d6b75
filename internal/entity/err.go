package entity

import "errors"

var (
	ErrUnreachable     = errors.New("upstream unreachable")
	ErrInvalidResponse = errors.New("invalid upstream response")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyResolved = errors.New("already resolved")
	ErrValidation      = errors.New("validation error")
)
