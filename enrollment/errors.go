package enrollment

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrAttemptNotFound   = errors.New("enrollment attempt not found")
	ErrAlreadyProcessing = errors.New("payment is already being processed")
	ErrAttemptDiscarded  = errors.New("enrollment attempt was dismissed")
	ErrUnexpected        = errors.New("unexpected error while processing payment")
)
