package usecase

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")

	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden")
	ErrInternshipNotFound  = errors.New("internship not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this internship")
	ErrInvalidTransition   = errors.New("invalid application status transition")
	ErrAIUnavailable       = errors.New("couldn't get a response")
	ErrFiltersUnavailable  = errors.New("saved filters are temporarily unavailable")
)
