package service

import "errors"

// Errors reported to the acting moderator or registrant. Callers match with errors.Is.
var (
	ErrMissingIdentifier   = errors.New("registration summary has no discord user id")
	ErrUserNotFound        = errors.New("user not found")
	ErrStorage             = errors.New("storage error")
	ErrFieldNotFound       = errors.New("field not found")
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrInvalidExportCode   = errors.New("invalid export code")
	ErrAlreadyDecided      = errors.New("registration already decided")
)
