package weather

import (
	"errors"
	"fmt"
)

// ErrLocationNotFound is returned when the geocoder has no candidate for a query.
var ErrLocationNotFound = errors.New("location not found")

// ProviderError wraps a network, timeout, or non-2xx failure on a required facet.
type ProviderError struct {
	Facet string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error on %s facet: %v", e.Facet, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates a provider payload missing an expected field.
type MalformedResponseError struct {
	Facet string
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: missing %s", e.Facet, e.Field)
}
