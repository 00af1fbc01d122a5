package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotFoundError signals that a referenced resource does not exist.

type NotFoundError struct {
	*DomainError
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s not found", resource, id)},
		Resource:    resource,
		ID:          id,
	}
}

// InvalidArgumentError signals that the caller supplied an argument the
// operation cannot accept. The operation must not have mutated any state.

type InvalidArgumentError struct {
	*DomainError
	Field string
}

func NewInvalidArgumentError(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", field, message)},
		Field:       field,
	}
}

// ConflictError signals a uniqueness or ownership violation, e.g. linking an
// external job id that is already linked to another step.

type ConflictError struct {
	*DomainError
	Resource string
	ID       string
}

func NewConflictError(resource, id, message string) *ConflictError {
	return &ConflictError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s: %s", resource, id, message)},
		Resource:    resource,
		ID:          id,
	}
}

// ExternalTransientError wraps a temporarily unavailable external source
// (job feed, price feed). It is surfaced as a warning next to best-effort
// results, never as a hard failure of the whole operation.

type ExternalTransientError struct {
	*DomainError
	Source string
	Err    error
}

func NewExternalTransientError(source string, err error) *ExternalTransientError {
	return &ExternalTransientError{
		DomainError: &DomainError{Message: fmt.Sprintf("external source %s unavailable: %v", source, err)},
		Source:      source,
		Err:         err,
	}
}

func (e *ExternalTransientError) Unwrap() error { return e.Err }

// DataIntegrityError signals malformed or incomplete static game data, e.g.
// a product with no producing activity. Tree builds degrade the affected
// branch to a raw-material leaf and report this as a warning.

type DataIntegrityError struct {
	*DomainError
	TypeID int64
}

func NewDataIntegrityError(typeID int64, message string) *DataIntegrityError {
	return &DataIntegrityError{
		DomainError: &DomainError{Message: fmt.Sprintf("type %d: %s", typeID, message)},
		TypeID:      typeID,
	}
}

// Warning is a recoverable condition attached to an otherwise successful
// result. Cause is an ExternalTransientError or DataIntegrityError.
type Warning struct {
	Message string
	Cause   error
}

func NewWarning(cause error) Warning {
	return Warning{Message: cause.Error(), Cause: cause}
}
