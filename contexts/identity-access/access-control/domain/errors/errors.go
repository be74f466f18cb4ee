package errors

import "errors"

var (
	ErrTokenInvalid      = errors.New("token invalid")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPolicyLoad        = errors.New("policy load failed")
	ErrPolicyPersist     = errors.New("policy persist failed")
)
