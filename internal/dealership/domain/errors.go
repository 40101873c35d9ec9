package domain

import "errors"

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrDealerNotFound      = errors.New("dealer not found")
	ErrCarMakeNotFound     = errors.New("car make not found")
	ErrCarModelNotFound    = errors.New("car model not found")
	ErrInvalidBodyType     = errors.New("invalid body type")
	ErrInvalidCatalogInput = errors.New("invalid catalog input")
)
