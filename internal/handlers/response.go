package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/validation"
)

// Коды ошибок в ответах API.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_ERROR"
)

// Response - общий конверт ответа API.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody описывает ошибку в конверте ответа.
type ErrorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// AppError - ошибка с HTTP-статусом и кодом для клиента.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  []validation.FieldError
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func badRequest(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

var (
	errUnauthorized       = &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: "Not authorized to access this route"}
	errInvalidCredentials = &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: "Invalid email or password"}
	errTooManyAttempts    = &AppError{Status: http.StatusTooManyRequests, Code: CodeTooManyRequests, Message: "Too many login attempts. Please try again later."}
	errInternal           = &AppError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Internal server error"}
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	respondJSON(w, r, status, Response{Success: true, Data: data, Message: message})
}

// writeError переводит ошибку в HTTP-ответ. Внутренние ошибки логируются, клиент видит общее сообщение.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	respondJSON(w, r, appErr.Status, Response{
		Success: false,
		Error:   &ErrorBody{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields},
	})
}

func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: verrs[0].Message, Fields: verrs}
	}
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return &AppError{Status: http.StatusRequestEntityTooLarge, Code: CodeValidation, Message: "Request body too large"}
	case errors.Is(err, models.ErrItemNotFound):
		return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "Item not found"}
	case errors.Is(err, models.ErrUserNotFound):
		return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "User not found"}
	case errors.Is(err, models.ErrEmailTaken):
		return &AppError{Status: http.StatusConflict, Code: CodeConflict, Message: "Email is already registered"}
	default:
		return errInternal
	}
}

// decodeJSON читает тело запроса в dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return badRequest("Request body is required")
		}
		return badRequest("Invalid request body")
	}
	return nil
}
