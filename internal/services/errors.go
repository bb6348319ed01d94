package services

import "errors"

var (
	ErrEmailInUse         = errors.New("email in use")
	ErrInvalidCredentials = errors.New("email or password is wrong")
	ErrNotVerified        = errors.New("email not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("verification has already been passed")
	ErrFileNotProvided    = errors.New("file not provided")
	ErrStorage            = errors.New("error saving avatar")
	ErrContactNotFound    = errors.New("contact not found")
)
