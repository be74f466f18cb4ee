package errors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrWorksiteNotFound = errors.New("worksite not found")
	ErrDuplicateEvent   = errors.New("event already indexed")
)
