package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i, a URL with -u, or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNotAStructure   = errors.New("top-level JSON must be an object or a non-empty list of objects")
	ErrMixedList       = errors.New("list mixes objects with non-object values")
	ErrUnknownStyle    = errors.New("unknown output style")
	ErrUnsupportedType = errors.New("type cannot be expressed in the selected style")
	ErrCyclicStructure = errors.New("cyclic structure reference detected")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeInference ErrorType = "inference"
	ErrorTypeStyle     ErrorType = "style"
	ErrorTypeRender    ErrorType = "render"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewInferenceError creates a new error related to schema inference
func NewInferenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInference,
		Message: message,
		Err:     err,
	}
}

// NewStyleError creates a new error related to style selection or building
func NewStyleError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStyle,
		Message: message,
		Err:     err,
	}
}

// NewRenderError creates a new error related to source rendering
func NewRenderError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRender,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeInference:
			return fmt.Sprintf("Schema inference error: %s", appErr.Message)
		case ErrorTypeStyle:
			return fmt.Sprintf("Style error: %s", appErr.Message)
		case ErrorTypeRender:
			return fmt.Sprintf("Rendering error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i, a URL with -u, or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNotAStructure) {
		return "Error: The top-level JSON value must be an object or a non-empty list of objects."
	}
	if errors.Is(err, ErrMixedList) {
		return "Error: The input list mixes objects with non-object values."
	}
	if errors.Is(err, ErrUnknownStyle) {
		return "Error: Unknown output style. Run with --help to see the supported styles."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
