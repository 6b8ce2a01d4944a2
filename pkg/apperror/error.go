package apperror

import "net/http"

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest covers validation failures (missing required fields, bad payloads).
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// Conflict covers state errors, e.g. mutating a draft before hydration.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

// Unprocessable covers extraction failures (upload parsed but produced nothing usable).
func Unprocessable(message string) *AppError {
	return New(http.StatusUnprocessableEntity, message, nil)
}

// BadGateway covers transport failures against the remote store or AI service.
func BadGateway(message string, err error) *AppError {
	return New(http.StatusBadGateway, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
