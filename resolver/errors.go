package resolver

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError reports request parameters the engine refuses to run.
type ValidationError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid " + e.Op + " request: " + e.Err.Error()
}

// Unwrap returns the underlying ozzo validation errors.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validatePaging checks the 1-based page and the page size.
func validatePaging(op string, page, limit, maxLimit int) error {
	err := validation.Errors{
		"page":  validation.Validate(page, validation.Required, validation.Min(1)),
		"limit": validation.Validate(limit, validation.Required, validation.Min(1), validation.Max(maxLimit)),
	}.Filter()
	if err != nil {
		return &ValidationError{Op: op, Err: err}
	}
	return nil
}

func validateID(op, field string, id int64) error {
	err := validation.Errors{
		field: validation.Validate(id, validation.Required, validation.Min(int64(1))),
	}.Filter()
	if err != nil {
		return &ValidationError{Op: op, Err: err}
	}
	return nil
}
