package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO 4217 code")
	ErrInvalidSecret   = errors.New("malformed client secret")
)

// GatewayError reports a failed create, retrieve, confirm or checkout call.
// Message carries the processor's own message when it supplied one.
type GatewayError struct {
	Op      string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) ProcessorMessage() string {
	return e.Message
}

// ProcessorMessage returns the processor message carried by err, if any.
func ProcessorMessage(err error) (string, bool) {
	var gerr *GatewayError
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message, true
	}
	return "", false
}
