package domain

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCategory classifies pipeline failures
type ErrorCategory string

const (
	CategoryConfiguration  ErrorCategory = "configuration"
	CategoryFileSystem     ErrorCategory = "file-system"
	CategoryParsing        ErrorCategory = "parsing"
	CategoryValidation     ErrorCategory = "validation"
	CategoryTransformation ErrorCategory = "transformation"
	CategoryGeneration     ErrorCategory = "generation"
	CategoryMemory         ErrorCategory = "memory"
	CategoryTimeout        ErrorCategory = "timeout"
	CategoryDependency     ErrorCategory = "dependency"
	CategoryBusinessLogic  ErrorCategory = "business-logic"
	CategoryRuntime        ErrorCategory = "runtime"
)

// ErrorSeverity rates a pipeline failure
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// PipelineError is the structured error surfaced by every component. Raw
// low-level errors are always wrapped, never surfaced alone.
type PipelineError struct {
	// Category is the failure taxonomy bucket
	Category ErrorCategory

	// Severity rates the failure
	Severity ErrorSeverity

	// Message is the human-readable explanation
	Message string

	// Code is the generated identifier: CATEGORY-SEVERITY-timestamp
	Code string

	// Component references the unit being processed, if any
	Component string

	// Operation names the operation that failed
	Operation string

	// CorrelationID ties the error to a pipeline run
	CorrelationID string

	// Timestamp is when the error was raised
	Timestamp time.Time

	// Remediation lists suggested next steps
	Remediation []string

	// Cause is the wrapped underlying error, if any
	Cause error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Explain renders the error with its remediation steps
func (e *PipelineError) Explain() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	for _, step := range e.Remediation {
		sb.WriteString("\n  - ")
		sb.WriteString(step)
	}
	return sb.String()
}

// NewPipelineError creates a structured error with a generated code
func NewPipelineError(category ErrorCategory, severity ErrorSeverity, message string, cause error) *PipelineError {
	now := time.Now()
	return &PipelineError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Code:      generateCode(category, severity, now),
		Timestamp: now,
		Cause:     cause,
	}
}

func generateCode(category ErrorCategory, severity ErrorSeverity, at time.Time) string {
	cat := strings.ToUpper(strings.ReplaceAll(string(category), "-", "_"))
	sev := strings.ToUpper(string(severity))
	return fmt.Sprintf("%s-%s-%d", cat, sev, at.UnixMilli())
}

// WithComponent attaches the component reference
func (e *PipelineError) WithComponent(id string) *PipelineError {
	e.Component = id
	return e
}

// WithOperation attaches the failing operation name
func (e *PipelineError) WithOperation(op string) *PipelineError {
	e.Operation = op
	return e
}

// WithRemediation attaches suggested next steps
func (e *PipelineError) WithRemediation(steps ...string) *PipelineError {
	e.Remediation = append(e.Remediation, steps...)
	return e
}

// NewConfigurationError creates a configuration-category error
func NewConfigurationError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryConfiguration, SeverityHigh, message, cause).
		WithRemediation("check the configuration file syntax", "run 'uplift init' to regenerate defaults")
}

// NewFileSystemError creates a file-system-category error
func NewFileSystemError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryFileSystem, SeverityHigh, message, cause).
		WithRemediation("verify the path exists and is readable")
}

// NewParsingError creates a parsing-category error
func NewParsingError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryParsing, SeverityMedium, message, cause).
		WithRemediation("check the file for syntax errors", "exclude the file if it is generated code")
}

// NewValidationError creates a validation-category error
func NewValidationError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryValidation, SeverityMedium, message, cause)
}

// NewTransformationError creates a transformation-category error
func NewTransformationError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryTransformation, SeverityHigh, message, cause).
		WithRemediation("review the component for unsupported patterns")
}

// NewGenerationError creates a generation-category error
func NewGenerationError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryGeneration, SeverityMedium, message, cause)
}

// NewTimeoutError creates a timeout-category error
func NewTimeoutError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryTimeout, SeverityHigh, message, cause).
		WithRemediation("increase the phase timeout or reduce concurrency")
}

// NewDependencyError creates a dependency-category error
func NewDependencyError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryDependency, SeverityMedium, message, cause)
}

// NewBusinessLogicError creates a business-logic-category error
func NewBusinessLogicError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryBusinessLogic, SeverityHigh, message, cause).
		WithRemediation("extract the logic manually and re-run with --regenerate")
}

// NewRuntimeError creates a runtime-category error
func NewRuntimeError(message string, cause error) *PipelineError {
	return NewPipelineError(CategoryRuntime, SeverityCritical, message, cause)
}
