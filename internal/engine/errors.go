package engine

import (
	"errors"
	"fmt"
)

// PatchError represents a failure of a patch run.
//
// Every failure is unrecoverable for the current run: the run aborts,
// any temporary output is discarded, and the original document is left
// untouched. There is no silent partial success.
type PatchError struct {
	// Code identifies the error category.
	Code PatchErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the document or rule-file path involved, if any.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// PatchErrorCode categorizes patch run failures.
type PatchErrorCode string

const (
	// ErrCodeInputMissing indicates the document could not be located
	// or read in full.
	ErrCodeInputMissing PatchErrorCode = "INPUT_MISSING"

	// ErrCodeWriteFailed indicates the temporary output could not be
	// written in full.
	ErrCodeWriteFailed PatchErrorCode = "WRITE_FAILED"

	// ErrCodeCommitFailed indicates the atomic replace of the original
	// path could not complete.
	ErrCodeCommitFailed PatchErrorCode = "COMMIT_FAILED"

	// ErrCodeRuleSetInvalid indicates the rule set failed validation
	// before the pass started.
	ErrCodeRuleSetInvalid PatchErrorCode = "RULESET_INVALID"
)

// Error implements the error interface.
func (e *PatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// IsInputMissing returns true if the error is an input read failure.
// Uses errors.As to handle wrapped errors.
func IsInputMissing(err error) bool {
	var pe *PatchError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInputMissing
	}
	return false
}

// IsCommitFailure returns true if the error occurred on the write or
// commit side of a run. In either case the original document is intact.
func IsCommitFailure(err error) bool {
	var pe *PatchError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeWriteFailed || pe.Code == ErrCodeCommitFailed
	}
	return false
}

// NewInputMissingError creates a PatchError for a failed document read.
func NewInputMissingError(path string, err error) *PatchError {
	return &PatchError{
		Code:    ErrCodeInputMissing,
		Message: "document cannot be read",
		Path:    path,
		Err:     err,
	}
}

// NewWriteFailureError creates a PatchError for a failed temporary write.
func NewWriteFailureError(path string, err error) *PatchError {
	return &PatchError{
		Code:    ErrCodeWriteFailed,
		Message: "temporary output cannot be written",
		Path:    path,
		Err:     err,
	}
}

// NewCommitFailureError creates a PatchError for a failed atomic replace.
func NewCommitFailureError(path string, err error) *PatchError {
	return &PatchError{
		Code:    ErrCodeCommitFailed,
		Message: "atomic replace cannot complete",
		Path:    path,
		Err:     err,
	}
}

// NewRuleSetInvalidError creates a PatchError for a rule set that failed
// validation. The individual defects are joined into the cause chain.
func NewRuleSetInvalidError(setName string, errs []error) *PatchError {
	return &PatchError{
		Code:    ErrCodeRuleSetInvalid,
		Message: fmt.Sprintf("rule set %q is invalid", setName),
		Err:     errors.Join(errs...),
	}
}
