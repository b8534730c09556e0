package domain

import "errors"

// Domain errors raised by the grading and aggregation core. They propagate
// unmodified to the HTTP boundary, which maps them to status codes.
var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateSubmission = errors.New("submission already exists for this candidate")
	ErrSubmissionClosed    = errors.New("submission window closed")
	ErrNotEligible         = errors.New("candidate not eligible for this assignment")
	ErrNotFound            = errors.New("not found")
	ErrAuthorization       = errors.New("not authorized")
)
