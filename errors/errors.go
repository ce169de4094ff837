package errors

import "fmt"

// Application error types organized by category for better error handling

type ErrorType int

// Provider Errors - failures while talking to the external weather service
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeNetwork
	ErrorTypeDecoding
	ErrorTypeServer
	ErrorTypeInvalidRequest

	// Domain/Business Logic Errors - errors related to business rules and validation
	ErrorTypeValidation

	// Infrastructure Errors - errors related to storage
	ErrorTypeDatabase

	// System/Configuration Errors - errors related to system setup and configuration
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeNetwork:
		return "NETWORK_ERROR"
	case ErrorTypeDecoding:
		return "DECODING_ERROR"
	case ErrorTypeServer:
		return "SERVER_ERROR"
	case ErrorTypeInvalidRequest:
		return "INVALID_REQUEST_ERROR"
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeDatabase:
		return "DATABASE_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Legacy constants for backward compatibility
const (
	NetworkError        = ErrorTypeNetwork
	DecodingError       = ErrorTypeDecoding
	ServerError         = ErrorTypeServer
	InvalidRequestError = ErrorTypeInvalidRequest
	ValidationError     = ErrorTypeValidation
	DatabaseError       = ErrorTypeDatabase
	ConfigurationError  = ErrorTypeConfiguration
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Provider Error Constructors
func NewNetworkError(message string, cause error) *AppError {
	return Wrap(NetworkError, message, cause)
}

func NewDecodingError(message string, cause error) *AppError {
	return Wrap(DecodingError, message, cause)
}

func NewServerError(message string) *AppError {
	return New(ServerError, message)
}

func NewInvalidRequestError(message string, cause error) *AppError {
	return Wrap(InvalidRequestError, message, cause)
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

// Infrastructure Error Constructors
func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(DatabaseError, message, cause)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// Helper functions for error type checking
func IsNetworkError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == NetworkError
	}
	return false
}

func IsDecodingError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == DecodingError
	}
	return false
}

func IsServerError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ServerError
	}
	return false
}

func IsInvalidRequestError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == InvalidRequestError
	}
	return false
}

func IsValidationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ValidationError
	}
	return false
}

func IsDatabaseError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == DatabaseError
	}
	return false
}

func IsConfigurationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ConfigurationError
	}
	return false
}

// UserMessage converts an error into the short human-readable text the
// controllers store for the presentation layer.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := err.(*AppError)
	if !ok {
		return "Unknown error"
	}
	switch appErr.Type {
	case NetworkError:
		if appErr.Cause != nil {
			return fmt.Sprintf("Network error: %v", appErr.Cause)
		}
		return "Network error"
	case DecodingError:
		return "Data processing failed."
	case ServerError:
		return fmt.Sprintf("Server: %s", appErr.Message)
	case InvalidRequestError:
		return "Invalid Request"
	default:
		return appErr.Message
	}
}
