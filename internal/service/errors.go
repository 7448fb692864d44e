package service

import "fmt"

// здесь происходит проверка ошибок бизнес-логики

const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotModified  = "NOT_MODIFIED"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewConflict(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeConflict,
		Message: message,
		Details: map[string]any{},
	}
}

func NewUnauthorized(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeUnauthorized,
		Message: message,
		Details: map[string]any{},
	}
}

func NewBadRequest(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeBadRequest,
		Message: message,
		Details: map[string]any{},
	}
}

// NewNotModified - сигнал идемпотентного no-op, не ошибка в обычном смысле.
// Наружу уходит как 304.
func NewNotModified(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotModified,
		Message: message,
		Details: map[string]any{},
	}
}
