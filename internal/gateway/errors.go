package gateway

import "fmt"

// InputError indicates a required input was missing or unusable. It is always
// raised before any external call is made, so the caller can reject locally.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// APICallError represents a transport or service failure from the AI service
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the service reply was not valid JSON
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// SchemaError indicates the reply parsed as JSON but violates the task's
// required shape
type SchemaError struct {
	Cause error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("reply failed schema validation: %v", e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}
