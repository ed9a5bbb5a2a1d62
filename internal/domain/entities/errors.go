package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrReasonerTransport marks a network failure talking to the claim reasoner.
	ErrReasonerTransport = errors.New("reasoner transport failure")

	// ErrProcessing marks any other failure while loading, segmenting or ranking.
	ErrProcessing = errors.New("processing error")
)

// ReasonerHTTPError is returned when the claim reasoner answers with a non-2xx status.
type ReasonerHTTPError struct {
	StatusCode int
	Body       string
}

func (e *ReasonerHTTPError) Error() string {
	return fmt.Sprintf("reasoner returned status %d: %s", e.StatusCode, e.Body)
}

// Label renders err the way it is reported to callers of the CLI and HTTP API.
func Label(err error) string {
	var httpErr *ReasonerHTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &httpErr):
		return fmt.Sprintf("API Error: %d %s", httpErr.StatusCode, httpErr.Body)
	case errors.Is(err, ErrReasonerTransport):
		return "API Error: " + err.Error()
	default:
		return "Processing error: " + err.Error()
	}
}

// ProcessingError marks err as a processing failure without changing its message.
type ProcessingError struct {
	Err error
}

// NewProcessingError wraps err; nil stays nil.
func NewProcessingError(err error) error {
	if err == nil {
		return nil
	}
	return &ProcessingError{Err: err}
}

func (e *ProcessingError) Error() string { return e.Err.Error() }

func (e *ProcessingError) Unwrap() error { return e.Err }

// Is reports ErrProcessing as a match so callers can test with errors.Is.
func (e *ProcessingError) Is(target error) bool { return target == ErrProcessing }
