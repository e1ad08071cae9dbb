package domain

import "errors"

var (
	ErrValidation     = errors.New("validation")
	ErrAuthentication = errors.New("authentication")
	ErrNotFound       = errors.New("not found")
	ErrRatingLocked   = errors.New("rating already submitted")
)
