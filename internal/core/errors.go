package core

import "fmt"

// DecodeError indicates a malformed structured message. Analysis is aborted
// before any scoring happens.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TranscriptionError indicates unusable or unsupported audio input.
type TranscriptionError struct {
	Reason string
	Err    error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transcription failed: %s", e.Reason)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// ClassificationError indicates the external classifier was unavailable or
// returned an unusable response. The text risk scorer never substitutes a
// default score for it.
type ClassificationError struct {
	Provider string
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed (%s): %v", e.Provider, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }
