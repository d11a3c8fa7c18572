package errors

import (
	"fmt"
	"net/http"
)

// CodeGenerationFailed tags every chatbot failure
const CodeGenerationFailed = "GENERATION_FAILED"

// GenerationFailedMessage is the only error text the chatbot surface exposes
const GenerationFailedMessage = "Failed to generate response"

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	cause      error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the internal cause for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewGenerationError collapses any chatbot failure into the generic 500.
// The cause is kept for logging only.
func NewGenerationError(cause error) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeGenerationFailed,
		Message:    GenerationFailedMessage,
		cause:      cause,
	}
}
