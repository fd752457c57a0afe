package errors

import (
	"errors"
	"fmt"
)

// Application-specific errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTimeout            = errors.New("operation timeout")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrStateCorrupt       = errors.New("session state corrupt")
)

// StoreError represents a failure in the durable crisis event store
type StoreError struct {
	Operation string
	Err       error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Operation, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}

// NotificationError represents a failure delivering a clinician notification.
// Delivery failures are recoverable: the event is already durable and the
// mailto fallback carries the alert out of band.
type NotificationError struct {
	Channel    string
	StatusCode int
	Err        error
}

func (e NotificationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("notification error on %s channel (status %d): %v", e.Channel, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("notification error on %s channel: %v", e.Channel, e.Err)
}

func (e NotificationError) Unwrap() error {
	return e.Err
}

// GeocodeError represents a failure resolving a device location. Always
// recoverable; callers resolve it to an absent location.
type GeocodeError struct {
	Provider string
	Err      error
}

func (e GeocodeError) Error() string {
	return fmt.Sprintf("geocode error from %s: %v", e.Provider, e.Err)
}

func (e GeocodeError) Unwrap() error {
	return e.Err
}
