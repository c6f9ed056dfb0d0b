package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the actor is not allowed to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrEmailTaken indicates a registration attempt with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for any failed login, without
	// distinguishing unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAlreadyVerified indicates the user's email has already been verified.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
