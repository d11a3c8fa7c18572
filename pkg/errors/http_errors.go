package errors

import "errors"

// FromError converts a standard error to an AppError.
// An AppError anywhere in the chain is returned as-is, anything else becomes
// the generic generation failure.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewGenerationError(err)
}

// Body is the JSON payload written for an error response
func Body(appErr *AppError) map[string]any {
	return map[string]any{"error": appErr.Message}
}
