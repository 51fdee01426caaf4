// Package errors provides structured error types for the touch-settings application.
// These errors include codes, messages, and user-friendly suggestions that the
// settings screens show in their status line.
package errors

import (
	"fmt"
	"strings"
)

// AppError represents a structured application error with additional context.
// It implements the error interface and supports error wrapping and comparison.
type AppError struct {
	// Code is a unique identifier for the error type (e.g., "SCHEMA_001")
	Code string

	// Message is a brief description of the error
	Message string

	// Suggestion provides actionable guidance for the user
	Suggestion string

	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface and returns a formatted error message.
func (e *AppError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Code != "" {
		sb.WriteString(" (code: ")
		sb.WriteString(e.Code)
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause of the error, enabling error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error type.
// Errors match by code when both carry one, otherwise by message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code != "" && t.Code != "" {
		return e.Code == t.Code
	}
	return e.Message == t.Message
}

// FormatForTUI returns a formatted string suitable for display in the TUI.
func (e *AppError) FormatForTUI() string {
	var sb strings.Builder

	sb.WriteString("⚠ ")
	sb.WriteString(e.Message)
	sb.WriteString("\n\n")

	if e.Suggestion != "" {
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n\n")
	}

	if e.Code != "" {
		sb.WriteString("Error Code: ")
		sb.WriteString(e.Code)
	}

	return sb.String()
}

// --- Sentinel Errors ---

var (
	// ErrUnknownWidget indicates a schema field names a widget type with no control.
	ErrUnknownWidget = &AppError{
		Code:       "SCHEMA_001",
		Message:    "Unknown widget type",
		Suggestion: "Use one of: spinbox, double_spinbox, line_edit, combo, int_list, toggle.",
	}

	// ErrInvalidSchema indicates a schema violates one of its invariants.
	ErrInvalidSchema = &AppError{
		Code:       "SCHEMA_002",
		Message:    "Schema is invalid",
		Suggestion: "Check field bounds, defaults and combo choices in the schema definition.",
	}

	// ErrNoMapper indicates Load was called on a view built without a mapper.
	ErrNoMapper = &AppError{
		Code:       "FORM_001",
		Message:    "No mapper configured for this settings view",
		Suggestion: "Construct the view with form.WithMapper before calling Load.",
	}

	// ErrDuplicateKey indicates two fields of one form share a key.
	ErrDuplicateKey = &AppError{
		Code:       "FORM_002",
		Message:    "Duplicate field key",
		Suggestion: "Field keys must be unique across every tab of a settings view.",
	}

	// ErrValidation indicates user input was rejected.
	ErrValidation = &AppError{
		Code:       "VAL_001",
		Message:    "Validation failed",
		Suggestion: "Correct the highlighted value and try again.",
	}

	// ErrRepository indicates the settings repository failed to load or save.
	ErrRepository = &AppError{
		Code:       "REPO_001",
		Message:    "Settings repository operation failed",
		Suggestion: "Check that the data directory exists and is writable.",
	}

	// ErrConfigInvalid indicates a configuration validation error.
	ErrConfigInvalid = &AppError{
		Code:       "CFG_001",
		Message:    "Configuration is invalid",
		Suggestion: "Check your configuration file for errors.",
	}

	// ErrUnknownDomain indicates a settings domain that no plugin provides.
	ErrUnknownDomain = &AppError{
		Code:       "CFG_002",
		Message:    "Unknown settings domain",
		Suggestion: "Run 'touch-settings schema --list' to see the available domains.",
	}
)

// --- Constructor Functions ---

// NewUnknownWidgetError creates an ErrUnknownWidget error naming the tag and,
// when known, the field that carried it.
func NewUnknownWidgetError(key, widgetType string) *AppError {
	msg := fmt.Sprintf("Unknown widget type %q", widgetType)
	if key != "" {
		msg += fmt.Sprintf(" for field %q", key)
	}
	return &AppError{
		Code:       ErrUnknownWidget.Code,
		Message:    msg,
		Suggestion: ErrUnknownWidget.Suggestion,
	}
}

// NewInvalidSchemaError creates an ErrInvalidSchema error with details.
func NewInvalidSchemaError(details string, cause error) *AppError {
	return &AppError{
		Code:       ErrInvalidSchema.Code,
		Message:    fmt.Sprintf("Schema is invalid: %s", details),
		Suggestion: ErrInvalidSchema.Suggestion,
		Cause:      cause,
	}
}

// NewNoMapperError creates an ErrNoMapper error for the named component.
func NewNoMapperError(component string) *AppError {
	return &AppError{
		Code:       ErrNoMapper.Code,
		Message:    fmt.Sprintf("No mapper configured for settings view %q", component),
		Suggestion: ErrNoMapper.Suggestion,
	}
}

// NewDuplicateKeyError creates an ErrDuplicateKey error for the given key.
func NewDuplicateKeyError(key string) *AppError {
	return &AppError{
		Code:       ErrDuplicateKey.Code,
		Message:    fmt.Sprintf("Duplicate field key %q", key),
		Suggestion: ErrDuplicateKey.Suggestion,
	}
}

// NewValidationError creates an ErrValidation error with the rejected field.
func NewValidationError(field, details string) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    fmt.Sprintf("%s: %s", field, details),
		Suggestion: ErrValidation.Suggestion,
	}
}

// NewRepositoryError creates an ErrRepository error for an operation on a domain.
func NewRepositoryError(operation, domain string, cause error) *AppError {
	return &AppError{
		Code:       ErrRepository.Code,
		Message:    fmt.Sprintf("Failed to %s %s settings", operation, domain),
		Suggestion: ErrRepository.Suggestion,
		Cause:      cause,
	}
}

// NewConfigInvalidError creates a new ErrConfigInvalid error with validation details.
func NewConfigInvalidError(details string, cause error) *AppError {
	return &AppError{
		Code:       ErrConfigInvalid.Code,
		Message:    fmt.Sprintf("Configuration is invalid: %s", details),
		Suggestion: ErrConfigInvalid.Suggestion,
		Cause:      cause,
	}
}

// NewUnknownDomainError creates an ErrUnknownDomain error for the given name.
func NewUnknownDomainError(name string) *AppError {
	return &AppError{
		Code:       ErrUnknownDomain.Code,
		Message:    fmt.Sprintf("Unknown settings domain %q", name),
		Suggestion: ErrUnknownDomain.Suggestion,
	}
}

// --- Helper Functions ---

// IsAppError checks if an error is an AppError type.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError attempts to extract an AppError from an error.
// Returns the AppError if found, or nil otherwise.
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}

// Wrap wraps an existing error with additional context.
// If the error is already an AppError, it returns a new AppError with the same code
// but with the additional message context.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:       appErr.Code,
			Message:    message + ": " + appErr.Message,
			Suggestion: appErr.Suggestion,
			Cause:      appErr.Cause,
		}
	}

	return &AppError{
		Code:       "GEN_001",
		Message:    message,
		Suggestion: "Check the error details and try again.",
		Cause:      err,
	}
}

// FormatErrorForTUI formats any error for display in the TUI.
func FormatErrorForTUI(err error) string {
	if err == nil {
		return ""
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr.FormatForTUI()
	}

	return fmt.Sprintf("⚠ %s\n\nAn unexpected error occurred. Check the logs for more details.", err.Error())
}

// Summary returns a single-line rendering of err for status bars.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		if appErr.Cause != nil {
			return appErr.Message + ": " + appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
