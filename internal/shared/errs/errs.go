package errs

import (
	"errors"
	"fmt"
)

// Validação (400)
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrImageTooLarge      = errors.New("image too large")
	ErrNoImageProvided    = errors.New("no image provided")
	ErrInvalidMultipart   = errors.New("invalid multipart data")
)

// Não encontrado (404)
var (
	ErrNotFound     = errors.New("not found")
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
)

// Autenticação (401) e conflito (409)
var (
	ErrUnauthorized = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("invalid token")
	ErrConflict     = errors.New("already exists")
)

var validation = []error{
	ErrInvalidRequest,
	ErrInvalidUserData,
	ErrInvalidImageFormat,
	ErrImageTooLarge,
	ErrNoImageProvided,
	ErrInvalidMultipart,
}

// IsValidation informa se o erro é corrigível pelo cliente
func IsValidation(err error) bool {
	for _, v := range validation {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// Invalid anexa detalhe a um erro de validação preservando errors.Is
func Invalid(base error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}
