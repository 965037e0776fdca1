package response

import (
	"encoding/json"
	"net/http"

	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

// WithJSON wraps payload in a {"data": ...} envelope.
func WithJSON[T any](writer http.ResponseWriter, code int, payload T) {
	write(writer, code, Data[T]{Data: &payload})
}

// WithError maps err to its status. Unclassified errors are logged with their stack and
// reach the client only as a generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)
	}

	message := failure.PublicMessage(err)
	write(writer, code, Error{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
