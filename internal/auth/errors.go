package auth

import (
	"errors"
	"net/http"
)

// Kind classifies a flow failure for HTTP mapping and client messaging.
type Kind int

const (
	// KindValidation covers missing or malformed input; never reaches the network.
	KindValidation Kind = iota
	// KindGateway covers OTP provider rejections.
	KindGateway
	// KindAuth covers credential or OTP mismatch.
	KindAuth
	// KindConflict covers duplicate account creation.
	KindConflict
	// KindNotFound covers lookups with no matching user.
	KindNotFound
	// KindInternal covers hashing, store or transport failures. The
	// client only ever sees a generic message for these.
	KindInternal
)

// FlowError is the boundary error for every auth use case. Message is
// user-facing; Err carries the internal cause for server-side logs only.
type FlowError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *FlowError) Unwrap() error { return e.Err }

// Status maps the failure kind to an HTTP status code.
func (e *FlowError) Status() int {
	switch e.Kind {
	case KindValidation, KindGateway:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

const internalMessage = "Something went wrong, please try again"

func validationErr(message string) *FlowError {
	return &FlowError{Kind: KindValidation, Message: message}
}

func gatewayErr(message string, err error) *FlowError {
	return &FlowError{Kind: KindGateway, Message: message, Err: err}
}

func authErr(message string) *FlowError {
	return &FlowError{Kind: KindAuth, Message: message}
}

func conflictErr(message string) *FlowError {
	return &FlowError{Kind: KindConflict, Message: message}
}

func notFoundErr(message string) *FlowError {
	return &FlowError{Kind: KindNotFound, Message: message}
}

func internalErr(err error) *FlowError {
	return &FlowError{Kind: KindInternal, Message: internalMessage, Err: err}
}

// AsFlow extracts a FlowError from an error chain.
func AsFlow(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
