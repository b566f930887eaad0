package workout

import (
	"errors"
	"fmt"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// ParseError marks a single malformed record or file. Batches skip and count records failing with it.
type ParseError struct {
	ExternalID string
	Reason     string
	Err        error
}

func NewParseError(externalID, reason string, err error) *ParseError {
	return &ParseError{
		ExternalID: externalID,
		Reason:     reason,
		Err:        err,
	}
}

func (e *ParseError) Error() string {
	msg := "parse"
	if e.ExternalID != "" {
		msg += fmt.Sprintf(" [%s]", e.ExternalID)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the remote service can't be reached or answers with garbage.
type TransportError struct {
	Op  string
	Err error
}

func NewTransportError(op string, err error) *TransportError {
	return &TransportError{
		Op:  op,
		Err: err,
	}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
