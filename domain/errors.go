package domain

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrJobNotActive         = errors.New("job is not accepting applications")
	ErrDuplicateApplication = errors.New("candidate has already applied to this job")
	ErrFileTooLarge         = errors.New("resume exceeds the 5 MiB limit")
	ErrUnsupportedFormat    = errors.New("resume format is not supported")

	// ErrDuplicateSubmission is returned by the store when the
	// (candidate, job) uniqueness constraint rejects an insert.
	ErrDuplicateSubmission = errors.New("submission already exists for candidate and job")
	ErrNotFound            = errors.New("record not found")
)

type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindUpload      ErrorKind = "upload_failed"
	KindParsing     ErrorKind = "parsing_failed"
	KindPersistence ErrorKind = "persistence_failed"
)

// ApplicationError is the only error type SubmitApplication returns.
type ApplicationError struct {
	Kind  ErrorKind
	Stage string
	// Status is the upstream HTTP status when one was received.
	Status int
	Err    error
}

func (e *ApplicationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s at %s (upstream status %d): %v", e.Kind, e.Stage, e.Status, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// Retryable is true for infrastructure failures; validation failures are final.
func (e *ApplicationError) Retryable() bool { return e.Kind != KindValidation }

// KindOf returns the kind of an ApplicationError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// UploadError is returned by object stores.
type UploadError struct {
	Provider string
	Err      error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload to %s failed: %v", e.Provider, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// ParsingError is returned by the resume parser gateway.
type ParsingError struct {
	Status  int
	Timeout bool
	Err     error
}

func (e *ParsingError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("resume parsing timed out: %v", e.Err)
	case e.Status != 0:
		return fmt.Sprintf("resume parsing failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("resume parsing failed: %v", e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }
