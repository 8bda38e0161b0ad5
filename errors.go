package main

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the core, the stores and the handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrAuth               = errors.New("invalid credentials")
	ErrMissingMealTargets = errors.New("no meal targets configured")
	ErrClassification     = errors.New("could not identify the meal from the image")
	ErrUnknownDish        = errors.New("no nutritional data for dish")
	ErrPremiumRequired    = errors.New("trial ended, subscription required")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
