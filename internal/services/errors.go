package services

import "errors"

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("service unavailable")
)

// serviceError carries a user-facing message and unwraps to its kind.
type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}

var (
	ErrEmailTaken         = newError(ErrConflict, "an account with this email already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")
	ErrTokenInvalid       = newError(ErrUnauthorized, "session expired, please log in again")
	ErrJobNotFound        = newError(ErrNotFound, "job not found")
	ErrJobClosed          = newError(ErrConflict, "this job is no longer accepting applications")
	ErrNotJobOwner        = newError(ErrForbidden, "only the recruiter who posted this job can do that")
	ErrResumeRequired     = newError(ErrInvalidInput, "please upload a resume to apply for this job")
	ErrAlreadyApplied     = newError(ErrConflict, "you have already applied to this job")
	ErrFileTooLarge       = newError(ErrInvalidInput, "file size must be less than 10MB")
	ErrApplicationMissing = newError(ErrNotFound, "application not found")
	ErrAlreadySubmitted   = newError(ErrConflict, "interview already submitted")
	ErrNoResponses        = newError(ErrInvalidInput, "at least one non-empty response is required")
	ErrNotSubmitted       = newError(ErrNotFound, "interview has not been submitted yet")
	ErrLLMDisabled        = newError(ErrUnavailable, "job extraction is not configured")
)
