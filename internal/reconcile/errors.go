package reconcile

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	UnknownProviderError ErrorKind = iota
	NoApplicableAccounts
	CredentialUpdateNeeded
)

func (k ErrorKind) String() string {
	switch k {
	case NoApplicableAccounts:
		return "no_applicable_accounts"
	case CredentialUpdateNeeded:
		return "credential_update_needed"
	}

	return "unknown_provider_error"
}

// ProviderError is a classified failure reported by the provider.
type ProviderError struct {
	Kind    ErrorKind
	Code    string
	Message string
	// Status is the underlying transport status, 0 when the request never completed.
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}

	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError extracts a ProviderError from err's chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}

	return nil, false
}
