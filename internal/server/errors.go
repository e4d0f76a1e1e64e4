package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-evaluator/internal/db"
	"github.com/jonathan/resume-evaluator/internal/evaluation"
	"github.com/jonathan/resume-evaluator/internal/extraction"
	"github.com/jonathan/resume-evaluator/internal/fetch"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrNoStore indicates a history route was called on a server running without a database
type ErrNoStore struct{}

func (e *ErrNoStore) Error() string {
	return "evaluation history is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unsupported *extraction.UnsupportedFormatError
		extractErr  *extraction.ExtractionError
		validation  *ErrValidation
		notFound    *ErrNotFound
		noStore     *ErrNoStore
		tooLarge    *http.MaxBytesError
		fields      validator.ValidationErrors
		stageErr    *evaluation.StageError
		fetchErr    *fetch.Error
	)
	switch {
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &fields), errors.Is(err, ingestion.ErrMultipleSources):
		return http.StatusBadRequest
	case errors.As(err, &stageErr) && stageErr.Stage == evaluation.StageValidate:
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingestion.ErrEmptyPosting):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &noStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client facing message of err. Server errors are not described.
func errorMessage(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Sprintf("validation error: %s - %s", fields[0].Field(), fields[0].Tag())
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
