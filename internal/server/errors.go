package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/localpulse/localpulse/internal/gateway"
)

// ErrOpportunityNotFound indicates the requested opportunity id is unknown
type ErrOpportunityNotFound struct {
	ID string
}

func (e *ErrOpportunityNotFound) Error() string {
	return fmt.Sprintf("opportunity not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream model failures map to 502 so clients can tell them apart
// from problems with their own request.
func HTTPStatus(err error) int {
	var (
		notFound  *ErrOpportunityNotFound
		valErr    *ErrValidation
		inputErr  *gateway.InputError
		apiErr    *gateway.APICallError
		parseErr  *gateway.ParseError
		schemaErr *gateway.SchemaError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &valErr), errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &apiErr), errors.As(err, &parseErr), errors.As(err, &schemaErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
