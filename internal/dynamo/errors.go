package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidInput indicates malformed dimensions or user input.
	ErrInvalidInput = errors.New("rdsim: invalid input")

	// ErrUnsupportedMode indicates an unknown boundary or initial-condition mode.
	ErrUnsupportedMode = errors.New("rdsim: unsupported mode")

	// ErrInvalidParameter indicates a non-positive step count or interval.
	ErrInvalidParameter = errors.New("rdsim: invalid parameter")

	// ErrShape indicates a field with the wrong rank or species count.
	ErrShape = errors.New("rdsim: invalid field shape")
)

// ParamError reports the parameter that failed validation.
type ParamError struct {
	Name  string
	Value any
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s=%v", e.Err, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}
