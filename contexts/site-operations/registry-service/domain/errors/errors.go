package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAdminRequired      = errors.New("admin access required")
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectNameExists  = errors.New("project name already exists")
	ErrWorksiteNotFound   = errors.New("worksite not found")
	ErrWorksiteNameExists = errors.New("worksite name already exists")
	ErrZoneNotFound       = errors.New("zone not found")
	ErrZoneNameExists     = errors.New("zone name already exists")
)
