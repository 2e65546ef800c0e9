// Package errors provides error types and handling for cloudship.
// Provider failures are classified into these types at the boundary where
// they are received; raw SDK errors never cross package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes reported by the CLI.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitToolMissing = 2
)

// AppError represents an orchestration error with an associated exit code.
type AppError struct {
	// Code is an error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// ExitCode is the process exit code the CLI should report
	ExitCode int
	// Fatal marks errors that abort the current command; non-fatal errors
	// are logged as warnings and the pipeline continues
	Fatal bool
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to match AppErrors by code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	CodeToolMissing            = "TOOL_MISSING"
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeResourceConflict       = "RESOURCE_CONFLICT"
	CodeResourceNotFound       = "RESOURCE_NOT_FOUND"
	CodeProvisioningAmbiguous  = "PROVISIONING_AMBIGUOUS"
	CodeBuildFailure           = "BUILD_FAILURE"
	CodePushFailure            = "PUSH_FAILURE"
	CodeDeployFailure          = "DEPLOY_FAILURE"
	CodeVerificationFailure    = "VERIFICATION_FAILURE"
	CodeUserAborted            = "USER_ABORTED"
	CodeInvalidInput           = "INVALID_INPUT"
)

// ErrToolMissing reports that a required local tool (for example the docker
// daemon) is absent or unreachable. The remedy is an install, so the CLI
// exits with a distinct code.
func ErrToolMissing(message string, cause error) *AppError {
	return &AppError{Code: CodeToolMissing, Message: message, ExitCode: ExitToolMissing, Fatal: true, Cause: cause}
}

// ErrAuthenticationRequired reports an unauthenticated provider session.
func ErrAuthenticationRequired(message string, cause error) *AppError {
	return &AppError{Code: CodeAuthenticationRequired, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// ErrPermissionDenied reports that the session lacks a role or permission.
func ErrPermissionDenied(message string, cause error) *AppError {
	return &AppError{Code: CodePermissionDenied, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// ErrResourceConflict reports "already exists". Non-fatal during
// provisioning: the resource is there, which is the end state we wanted.
func ErrResourceConflict(message string, cause error) *AppError {
	return &AppError{Code: CodeResourceConflict, Message: message, ExitCode: ExitOK, Fatal: false, Cause: cause}
}

// ErrResourceNotFound reports a missing resource. Whether this is fatal
// depends on the caller: teardown tolerates it, deploy does not.
func ErrResourceNotFound(message string, cause error) *AppError {
	return &AppError{Code: CodeResourceNotFound, Message: message, ExitCode: ExitError, Fatal: false, Cause: cause}
}

// ErrProvisioningAmbiguous reports a provider response that can be read
// neither as "already satisfied" nor as a definite failure.
func ErrProvisioningAmbiguous(message string, cause error) *AppError {
	return &AppError{Code: CodeProvisioningAmbiguous, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// ErrBuildFailure reports a failed image build. Always aborts before push.
func ErrBuildFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeBuildFailure, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// ErrPushFailure reports a failed push for a specific tag.
func ErrPushFailure(message string, cause error) *AppError {
	return &AppError{Code: CodePushFailure, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// ErrDeployFailure reports a rejected or failed service rollout. The
// previous revision keeps serving; that safety is the provider's.
func ErrDeployFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeDeployFailure, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// ErrVerificationFailure reports a failed post-deploy probe. Advisory only.
func ErrVerificationFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeVerificationFailure, Message: message, ExitCode: ExitOK, Fatal: false, Cause: cause}
}

// ErrUserAborted reports that the operator declined a confirmation prompt.
func ErrUserAborted(message string) *AppError {
	return &AppError{Code: CodeUserAborted, Message: message, ExitCode: ExitError, Fatal: true}
}

// ErrInvalidInput reports rejected operator input before any network call.
func ErrInvalidInput(message string, cause error) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, ExitCode: ExitError, Fatal: true, Cause: cause}
}

// GetExitCode extracts the process exit code from an error.
// Returns ExitError if the error is not an AppError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitError
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	return GetErrorCode(err) == code
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
