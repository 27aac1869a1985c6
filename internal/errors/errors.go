// Package errors provides centralized error handling with categories and context
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategoryResource    ErrorCategory = "resource"    // output paths unwritable/unreadable
	CategoryVideoIO     ErrorCategory = "video-io"    // frame decode/encode failure
	CategoryDetection   ErrorCategory = "detection"   // detector failure or malformed result
	CategoryDatabase    ErrorCategory = "database"    // log store corrupt or schema mismatch
	CategoryAggregation ErrorCategory = "aggregation" // single run skipped during a field sweep
	CategoryValidation  ErrorCategory = "validation"
	CategoryGeneric     ErrorCategory = "generic"
)

// EnhancedError wraps an error with component, category and context metadata
type EnhancedError struct {
	Err       error
	Component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches two enhanced errors by category, otherwise defers to the wrapped error
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return stderrors.Is(ee.Err, target)
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error builder wrapping err
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new builder wrapping a formatted error
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category for better grouping
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build creates the final enhanced error
func (eb *ErrorBuilder) Build() error {
	if eb.category == "" {
		eb.category = CategoryGeneric
	}
	return &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
}

// HasCategory reports whether err or any error it wraps carries the given category
func HasCategory(err error, category ErrorCategory) bool {
	for err != nil {
		if ee, ok := err.(*EnhancedError); ok && ee.Category == category {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
