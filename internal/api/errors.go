package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/bilingo/internal/api/shared"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/domain/session"
	"github.com/phrazzld/bilingo/internal/domain/srs"
	"github.com/phrazzld/bilingo/internal/service"
	"github.com/phrazzld/bilingo/internal/service/auth"
	"github.com/phrazzld/bilingo/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrCardNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, srs.ErrInvalidGrade),
		errors.Is(err, session.ErrInvalidSessionLimit),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err that never
// leaks internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrCardNotOwned):
		return "You do not own this card"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrConflict):
		return "Card was modified concurrently, please retry"
	case errors.Is(err, store.ErrDuplicate):
		return "Card already exists"

	case errors.Is(err, srs.ErrInvalidGrade):
		return "Grade must be between 0 and 5"
	case errors.Is(err, session.ErrInvalidSessionLimit):
		return fmt.Sprintf("Limit must be between 1 and %d", session.MaxSize)

	case errors.Is(err, domain.ErrCardFrontEmpty):
		return "Front text is required"
	case errors.Is(err, domain.ErrCardBackEmpty):
		return "Back text is required"
	case errors.Is(err, domain.ErrCardFrontTooLong),
		errors.Is(err, domain.ErrCardBackTooLong):
		return fmt.Sprintf("Card text must be at most %d characters", domain.MaxTextLength)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid card data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err. For
// server errors defaultMsg, when not empty, replaces the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a validator error into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag(), fe.Param()))
}

func validationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "max":
		return "must be at most " + param + " characters"
	case "min":
		return "must be at least " + param
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
