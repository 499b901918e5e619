// Package errors provides standardized error handling for the query pipeline and its BPMN workers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeExtractionUnavailable ErrorCode = "EXTRACTION_UNAVAILABLE"
	ErrCodeGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE"
	ErrCodeGenerationTimeout     ErrorCode = "GENERATION_TIMEOUT"

	ErrCodeGraphConnectionFailed ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeRetrievalFailed       ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeRetrievalTimeout      ErrorCode = "RETRIEVAL_TIMEOUT"
	ErrCodeTemplateNotFound      ErrorCode = "TEMPLATE_NOT_FOUND"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeQueryLogFailed   ErrorCode = "QUERY_LOG_FAILED"

	ErrCodeWorkflowEngineUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error metadata and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidQueryError is returned for empty or malformed query text.
func NewInvalidQueryError(details string) *StandardError {
	return newError(ErrCodeInvalidQuery, "Invalid query", details, false, nil)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false, nil)
}

// NewExtractionUnavailableError marks a failed NER or sentiment backend call.
func NewExtractionUnavailableError(service string, err error) *StandardError {
	return newError(ErrCodeExtractionUnavailable, "Extraction backend unavailable",
		fmt.Sprintf("service: %s, error: %v", service, err), true, err)
}

func NewGenerationUnavailableError(provider string, err error) *StandardError {
	return newError(ErrCodeGenerationUnavailable, "Text generation unavailable",
		fmt.Sprintf("provider: %s, error: %v", provider, err), true, err)
}

func NewGenerationTimeoutError(provider string) *StandardError {
	return newError(ErrCodeGenerationTimeout, "Text generation timeout",
		fmt.Sprintf("provider: %s", provider), true, nil)
}

func NewGraphConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeGraphConnectionFailed, "Graph database connection error", err.Error(), true, err)
}

// NewRetrievalFailedError wraps a failed graph query execution.
func NewRetrievalFailedError(templateID string, err error) *StandardError {
	return newError(ErrCodeRetrievalFailed, "Graph query execution error",
		fmt.Sprintf("template: %s, error: %v", templateID, err), true, err)
}

func NewRetrievalTimeoutError(templateID string) *StandardError {
	return newError(ErrCodeRetrievalTimeout, "Graph query timeout",
		fmt.Sprintf("template: %s", templateID), true, nil)
}

func NewTemplateNotFoundError(intent string) *StandardError {
	return newError(ErrCodeTemplateNotFound, "No query template for intent",
		fmt.Sprintf("intent: %s", intent), false, nil)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Result cache unavailable", err.Error(), true, err)
}

func NewQueryLogFailedError(err error) *StandardError {
	return newError(ErrCodeQueryLogFailed, "Query log write failed", err.Error(), true, err)
}

// NewWorkflowEngineUnavailableError wraps a failed Zeebe gateway command.
func NewWorkflowEngineUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeWorkflowEngineUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %v", operation, err), true, err)
}

func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", details, false, nil)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes thrown by workers.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidQuery:          "INVALID_QUERY",
	ErrCodeInvalidInput:          "INVALID_INPUT",
	ErrCodeExtractionUnavailable: "EXTRACTION_UNAVAILABLE",
	ErrCodeGenerationUnavailable: "GENERATION_UNAVAILABLE",
	ErrCodeGenerationTimeout:     "GENERATION_TIMEOUT",
	ErrCodeGraphConnectionFailed: "GRAPH_CONNECTION_FAILED",
	ErrCodeRetrievalFailed:       "RETRIEVAL_FAILED",
	ErrCodeRetrievalTimeout:      "RETRIEVAL_TIMEOUT",
	ErrCodeTemplateNotFound:      "TEMPLATE_NOT_FOUND",
	ErrCodeCacheUnavailable:      "CACHE_UNAVAILABLE",
	ErrCodeQueryLogFailed:        "QUERY_LOG_FAILED",
	ErrCodeConfigInvalid:         "CONFIG_INVALID",

	ErrCodeWorkflowEngineUnavailable: "WORKFLOW_ENGINE_UNAVAILABLE",
}

// GetRetryCount returns the recommended job retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGraphConnectionFailed,
		ErrCodeRetrievalFailed,
		ErrCodeExtractionUnavailable,
		ErrCodeGenerationUnavailable,
		ErrCodeQueryLogFailed,
		ErrCodeWorkflowEngineUnavailable:
		return 3

	case ErrCodeRetrievalTimeout,
		ErrCodeCacheUnavailable:
		return 2

	case ErrCodeGenerationTimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "GRAPH") || strings.Contains(codeStr, "RETRIEVAL") || strings.Contains(codeStr, "TEMPLATE"):
		return "GRAPH"
	case strings.Contains(codeStr, "GENERATION") || strings.Contains(codeStr, "EXTRACTION"):
		return "AI"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "QUERY_LOG"):
		return "STORAGE"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
