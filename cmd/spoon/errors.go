package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist        = errors.New("input file does not exist")
	ErrNoTemplates              = errors.New("no templates found")
	ErrCompilationFailed        = errors.New("compilation failed")
	ErrValidationFailed         = errors.New("validation failed")
	ErrSingleExpressionRequired = errors.New("exactly one tag is required")
	ErrInvalidData              = errors.New("data file must contain a mapping")
	ErrInvalidFormat            = errors.New("invalid output format")
)
