package interview

import "errors"

var (
	// ErrDefinitionInvalid is returned when an interview definition is missing a required question group.
	ErrDefinitionInvalid = errors.New("interview definition invalid")

	// ErrEmptyResponse is returned when a blank answer is recorded.
	ErrEmptyResponse = errors.New("response is empty")

	// ErrRetakeLimitExceeded is returned once the current question has used all of its retakes.
	ErrRetakeLimitExceeded = errors.New("retake limit exceeded")

	// ErrAlreadyRecording is returned when recording is started twice.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrMediaAccessDenied is returned when the camera or microphone could not be acquired.
	// The session stays usable with video disabled.
	ErrMediaAccessDenied = errors.New("media access denied")

	// ErrSubmissionFailed wraps any failure of the final submission call.
	ErrSubmissionFailed = errors.New("submission failed")

	// ErrNotFound is returned when an interview does not exist.
	ErrNotFound = errors.New("interview not found")

	// ErrExpired is returned when an interview link is past its expiry.
	ErrExpired = errors.New("interview expired")

	// ErrSessionComplete is returned by every mutating operation once the session is complete.
	ErrSessionComplete = errors.New("interview session already complete")

	// ErrSessionClosed is returned when media is requested after Close.
	ErrSessionClosed = errors.New("interview session closed")

	// ErrSessionNotComplete is returned by Resubmit before the last question is answered.
	ErrSessionNotComplete = errors.New("interview session not complete")

	// ErrSubmissionInFlight is returned by Resubmit while another submission is running.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)
