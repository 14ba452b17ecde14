package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/validation"
)

var (
	ErrValidation         = errors.New("validation")               // 400
	ErrAlreadyExists      = errors.New("already exists")           // 400
	ErrInvalidToken       = errors.New("invalid token")            // 401
	ErrInvalidCredentials = errors.New("invalid name or password") // 401
	ErrForbidden          = errors.New("not allowed")              // 403
	ErrNotFound           = errors.New("not found")                // 404
	ErrRateLimited        = errors.New("too many requests")        // 429
	ErrDelivery           = errors.New("delivery failed")          // 502
)

func validate(v any) error {
	if err := validation.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &validation.Error{Message: msg})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return err
}

func exists(what string) error {
	return fmt.Errorf("%w: %s already exists", ErrAlreadyExists, what)
}

// Message returns the client-facing part of a service error.
func Message(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Error()
	}
	for _, sentinel := range []error{ErrNotFound, ErrAlreadyExists, ErrForbidden} {
		if errors.Is(err, sentinel) {
			if msg, ok := detail(err, sentinel); ok {
				return msg
			}
			return sentinel.Error()
		}
	}
	return err.Error()
}

func detail(err, sentinel error) (string, bool) {
	prefix := sentinel.Error() + ": "
	s := err.Error()
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return "", false
}
