package failure

import (
	"errors"
	"fmt"
	"net/http"
)

const internalMessage = "internal server error"

// Failure is a domain error that knows the HTTP status it maps to.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func New(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

// BadRequest keeps a nil error nil so it can wrap a validation result directly.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

// Conflict covers double bookings and uniqueness clashes.
func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// InvalidState rejects a transition the entity's current status does not allow.
func InvalidState(entityName, state string) error {
	return New(http.StatusUnprocessableEntity, fmt.Sprintf("%s is %s", entityName, state))
}

// GetCode returns the status of the first Failure in err's chain, or 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a client. Errors that are not a Failure may carry
// SQL or driver details, so they are replaced by a generic message.
func PublicMessage(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Message
	}

	return internalMessage
}
