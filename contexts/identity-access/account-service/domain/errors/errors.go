package errors

import "errors"

var (
	ErrInvalidRegistration  = errors.New("invalid registration")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUsernameExists       = errors.New("username already exists")
	ErrEmailExists          = errors.New("email already exists")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountInactive      = errors.New("account inactive")
	ErrAdminRequired        = errors.New("admin access required")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrInvalidResourceType  = errors.New("invalid resource type")
	ErrInvalidAccessSetting = errors.New("invalid access setting")
	ErrResourceNotFound     = errors.New("resource not found")
)
