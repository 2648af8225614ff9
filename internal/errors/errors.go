package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context. The code of a wrapped
// AppError is carried over so callers can still branch on it.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain,
// otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeArtifactNotFound = "ARTIFACT_NOT_FOUND"
	CodeArtifactCorrupt  = "ARTIFACT_CORRUPT"
	CodeShapeMismatch    = "SHAPE_MISMATCH"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// ArtifactNotFound reports a required model artifact that is absent.
func ArtifactNotFound(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeArtifactNotFound,
		Message: fmt.Sprintf("model artifact %s not found; run the training step to produce it", path),
		Cause:   cause,
	}
}

// ArtifactCorrupt reports an artifact that exists but cannot be used.
func ArtifactCorrupt(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeArtifactCorrupt,
		Message: fmt.Sprintf("model artifact %s is unreadable", path),
		Cause:   cause,
	}
}

// ShapeMismatch reports schema/artifact drift detected at predict time.
func ShapeMismatch(stage string, got, want int) *AppError {
	return New(CodeShapeMismatch,
		fmt.Sprintf("%s expects %d features but the assembled vector has %d", stage, want, got))
}

// IsArtifactError reports whether err means a variant's artifacts could not
// be loaded, whether missing or unreadable.
func IsArtifactError(err error) bool {
	return HasCode(err, CodeArtifactNotFound) || HasCode(err, CodeArtifactCorrupt)
}
