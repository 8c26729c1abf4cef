package models

import "fmt"

// ProviderError carries the HTTP status a generation backend answered with.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
