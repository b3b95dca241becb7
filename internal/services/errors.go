package services

import (
	"errors"

	"cafeconnect/internal/models"
)

var (
	// ErrValidation classifies every request the caller must fix: schema failures,
	// undecodable payloads and rule violations.
	ErrValidation = models.ErrValidation
	// ErrInvalidTransition is returned for a status change the order lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidReference is returned when an order names a cafe or user that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
