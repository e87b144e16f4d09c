package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNotContainer = errors.New("not a container")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrCycle        = errors.New("brick cannot contain itself")
	ErrBoundary     = errors.New("at list boundary")
	ErrForbidden    = errors.New("not allowed by manifest")
	ErrNilNode      = errors.New("null brick or section")
)
