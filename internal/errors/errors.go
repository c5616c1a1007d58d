package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError is a local form validation failure. Path is the dotted
// field path (e.g. postalAddress.town.x) the caller focuses.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Path, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ConflictRequiresCascadeError is returned when a delete is blocked by live
// references and can only succeed with cascading enabled
type ConflictRequiresCascadeError struct {
	Entity  string
	ID      int64
	Message string
}

func (e *ConflictRequiresCascadeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %d is referenced by other entities: %s", e.Entity, e.ID, e.Message)
	}
	return fmt.Sprintf("%s %d is referenced by other entities", e.Entity, e.ID)
}

// DeletedWhileViewingError is returned when an entity that was observed
// earlier in the session disappeared
type DeletedWhileViewingError struct {
	Entity string
	ID     int64
	Notice string
}

func (e *DeletedWhileViewingError) Error() string {
	return fmt.Sprintf("%s %d was deleted by another user", e.Entity, e.ID)
}

// GatewayError is any failed Gateway call that is not one of the structured
// outcomes above
type GatewayError struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status=%d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status=%d", e.Op, e.Status)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same call may succeed
func (e *GatewayError) Transient() bool {
	return e.Err != nil || e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrOrganizationNotFound = &NotFoundError{Entity: "organization"}
	ErrCoordinatesNotFound  = &NotFoundError{Entity: "coordinates"}
	ErrAddressNotFound      = &NotFoundError{Entity: "address"}
	ErrLocationNotFound     = &NotFoundError{Entity: "location"}
	ErrImportNotFound       = &NotFoundError{Entity: "import"}
)

// List view errors
var (
	ErrUnknownSearchField = errors.New("search field is not allowed for this view")
	ErrUnknownSortField   = errors.New("sort field is not allowed for this view")
	ErrInvalidPage        = errors.New("page index must not be negative")
	ErrEngineClosed       = errors.New("list view is closed")
)

// Deletion negotiation errors
var (
	ErrCascadeDeclined      = errors.New("cascading deletion declined")
	ErrConfirmationRequired = errors.New("deletion requires cascading and no confirmation was available")
)

// Authentication Errors
var (
	ErrTokenMissing = errors.New("api token is not configured")
	ErrTokenExpired = errors.New("api token has expired")
)

// Helper functions for error checking

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsConflictRequiresCascade checks if an error is a cascade conflict
func IsConflictRequiresCascade(err error) bool {
	var conflictErr *ConflictRequiresCascadeError
	return errors.As(err, &conflictErr)
}

// IsDeletedWhileViewing checks if an error is a DeletedWhileViewingError
func IsDeletedWhileViewing(err error) bool {
	var deletedErr *DeletedWhileViewingError
	return errors.As(err, &deletedErr)
}

// IsTransient checks if an error is a retryable Gateway failure
func IsTransient(err error) bool {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr.Transient()
	}
	return false
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenMissing)
}

// NewValidationError creates a new ValidationError
func NewValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// NewNotFoundError creates a NotFoundError for the given entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewConfigurationError creates a ConfigurationError
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// NewAuthenticationError creates an AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}
