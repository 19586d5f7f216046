package erede

import (
	"errors"
	"fmt"

	"erede_gateway/internal/usecase/interfaces"
)

var (
	ErrConfiguration        = errors.New("erede: configuration error")
	ErrDecoding             = errors.New("erede: decoding error")
	ErrTransport            = errors.New("erede: transport error")
	ErrMissingTransactionID = fmt.Errorf("erede: missing transaction id: %w", interfaces.ErrGatewayInvalidRequest)
)

// ConfigurationError reports an environment (or operation) the endpoint table
// does not know about.
type ConfigurationError struct {
	Operation   Operation
	Environment string
}

func (e *ConfigurationError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("erede: unrecognized environment %q", e.Environment)
	}
	return fmt.Sprintf("erede: no endpoint for operation %q in environment %q", e.Operation, e.Environment)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration || target == interfaces.ErrGatewayConfiguration
}

// DecodingError reports a reply that could not be turned into a typed response:
// invalid JSON, a missing required field or an unparseable timestamp.
// HTTPStatus is the status of the reply that failed to decode.
type DecodingError struct {
	Operation  Operation
	Field      string
	HTTPStatus int
	Err        error
}

func (e *DecodingError) Error() string {
	msg := fmt.Sprintf("erede: decode %s response (http %d)", e.Operation, e.HTTPStatus)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding || target == interfaces.ErrGatewayDecoding
}

func (e *DecodingError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure of the HTTP call.
type TransportError struct {
	Operation Operation
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("erede: %s request failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport || target == interfaces.ErrGatewayTransport
}

func (e *TransportError) Unwrap() error { return e.Err }

var errMissingField = errors.New("required field missing")
