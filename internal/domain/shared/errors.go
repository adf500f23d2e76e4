// Package shared contains the error taxonomy used across the domain packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, checked with errors.Is().
var (
	// ErrStorageUnavailable means the record store could not be read or written.
	// It is the only kind that crosses the application boundary as a hard failure.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Rejection kinds. These are user-facing outcomes, not failures.
	ErrUnknownPet     = errors.New("unknown pet")
	ErrInsufficientXP = errors.New("insufficient xp")
	ErrInventoryFull  = errors.New("inventory full")
	ErrPetNotOwned    = errors.New("pet not owned")
	ErrInvalidInput   = errors.New("invalid input")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "economy", "naming", "store"
	Op      string // operation that failed, e.g. "Purchase"
	Kind    error  // base error for errors.Is() checking
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both Kind and Err.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// StorageError wraps a backend failure as ErrStorageUnavailable.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return WrapError("store", op, ErrStorageUnavailable, "record store unavailable", err)
}

// Economy and naming rejections.
var (
	ErrPetUnknown       = NewDomainError("economy", "Resolve", ErrUnknownPet, "no such pet in the shop")
	ErrNotEnoughXP      = NewDomainError("economy", "Purchase", ErrInsufficientXP, "not enough XP")
	ErrNoRoomForPet     = NewDomainError("economy", "Purchase", ErrInventoryFull, "inventory is full")
	ErrRenameNotOwned   = NewDomainError("naming", "Rename", ErrPetNotOwned, "pet not owned")
	ErrRenameEmptyName  = NewDomainError("naming", "Rename", ErrInvalidInput, "new name must not be empty")
	ErrPurchaseSelector = NewDomainError("economy", "Purchase", ErrInvalidInput, "pet selector is required")
)

// IsStorageUnavailable reports whether err is a storage failure.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsRejection reports whether err is a user-facing business rejection.
func IsRejection(err error) bool {
	return errors.Is(err, ErrUnknownPet) ||
		errors.Is(err, ErrInsufficientXP) ||
		errors.Is(err, ErrInventoryFull) ||
		errors.Is(err, ErrPetNotOwned) ||
		errors.Is(err, ErrInvalidInput)
}
