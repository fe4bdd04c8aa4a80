package engine

import (
	"fmt"
	"sort"
)

type AppError struct {
	Code    string        `json:"code"`
	Status  int           `json:"-"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// ErrorMap is a field-keyed validation result. An absent key means the field
// has no error; an empty map means the record is fully valid.
type ErrorMap map[string]string

// Details returns the map as a field-sorted detail list for responses.
func (m ErrorMap) Details() []ErrorDetail {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	details := make([]ErrorDetail, 0, len(fields))
	for _, f := range fields {
		details = append(details, ErrorDetail{Field: f, Message: m[f]})
	}
	return details
}

func NewAppError(code string, status int, msg string) *AppError {
	return &AppError{Code: code, Status: status, Message: msg}
}

func NotFoundError(kind string, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  404,
		Message: fmt.Sprintf("%s with id %s not found", kind, id),
	}
}

func UnknownKindError(name string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_ENTITY",
		Status:  404,
		Message: fmt.Sprintf("Unknown entity kind: %s", name),
	}
}

func ValidationFailed(errs ErrorMap) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Status:  422,
		Message: "Validation failed",
		Details: errs.Details(),
	}
}

func TransitionError(msg string) *AppError {
	return &AppError{
		Code:    "INVALID_TRANSITION",
		Status:  409,
		Message: msg,
	}
}

func ConflictError(msg string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Status:  409,
		Message: msg,
	}
}

func StoreError(msg string) *AppError {
	if msg == "" {
		msg = "The operation failed, please try again"
	}
	return &AppError{
		Code:    "STORE_ERROR",
		Status:  502,
		Message: msg,
	}
}
