// Package server provides the HTTP REST API for the CV insight service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-insight/internal/analytics"
	"github.com/jonathan/cv-insight/internal/extract"
	"github.com/jonathan/cv-insight/internal/llm"
	"github.com/jonathan/cv-insight/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *store.NotFoundError
		extraction  *extract.ExtractionError
		call        *llm.CallError
		validation  *ErrValidation
		aggregation *analytics.AggregationError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &call):
		return http.StatusBadGateway
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &aggregation):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
