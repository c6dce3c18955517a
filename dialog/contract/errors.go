package contract

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrInvalidAction = errors.New("action_type must be button or text")
	ErrMissingButton = errors.New("action_name is required for button actions")
)
