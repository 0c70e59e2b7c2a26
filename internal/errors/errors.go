// Package errors provides the structured error type (MiteError) used to classify build
// failures and present them on the command line.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory groups errors by the build stage that raised them
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryInput      ErrorCategory = "input"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryCompile    ErrorCategory = "compile"
	CategoryTemplate   ErrorCategory = "template"
	CategoryExecute    ErrorCategory = "execute"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the build
	SeverityWarning ErrorSeverity = "warning" // Build continues with defaults
)

// MiteError is a structured error with category, severity and context
type MiteError struct {
	Category ErrorCategory
	Severity ErrorSeverity
	Message  string
	Cause    error
	Context  ContextFields
}

// ContextFields carries structured context for MiteError
type ContextFields map[string]any

func (e *MiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *MiteError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *MiteError) WithContext(key string, value any) *MiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

func New(category ErrorCategory, severity ErrorSeverity, message string) *MiteError {
	return &MiteError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new MiteError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *MiteError {
	return &MiteError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first MiteError in the chain of err
func As(err error) (*MiteError, bool) {
	var me *MiteError
	if stderrors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// IsCategory checks if an error, or any error it wraps, belongs to a category
func IsCategory(err error, category ErrorCategory) bool {
	if me, ok := As(err); ok {
		return me.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if there is none
func GetCategory(err error) ErrorCategory {
	if me, ok := As(err); ok {
		return me.Category
	}
	return CategoryInternal
}
