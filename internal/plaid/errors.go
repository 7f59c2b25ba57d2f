package plaid

import (
	"encoding/json"
	"strings"

	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

const (
	codeNoAccounts        = "NO_ACCOUNTS"
	codeItemLoginRequired = "ITEM_LOGIN_REQUIRED"
)

// Kind maps a Plaid error code to its classification.
func Kind(code string) reconcile.ErrorKind {
	switch code {
	case codeNoAccounts:
		return reconcile.NoApplicableAccounts
	case codeItemLoginRequired:
		return reconcile.CredentialUpdateNeeded
	}

	return reconcile.UnknownProviderError
}

// classify turns a non-200 response into a provider error. Bodies that are
// not Plaid error objects are kept verbatim in the message.
func classify(status int, body []byte) *reconcile.ProviderError {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.ErrorCode == "" {
		return &reconcile.ProviderError{
			Kind:    reconcile.UnknownProviderError,
			Message: strings.TrimSpace(string(body)),
			Status:  status,
		}
	}

	msg := e.ErrorMessage
	if e.ErrorType != "" {
		msg = e.ErrorType + ": " + msg
	}

	return &reconcile.ProviderError{
		Kind:    Kind(e.ErrorCode),
		Code:    e.ErrorCode,
		Message: msg,
		Status:  status,
	}
}
