package main

import (
	"fmt"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
	"github.com/pkg/errors"
)

// DecodeError reports an input message that could not be turned into a
// request. Err carries maelstrom.MalformedRequest for bad JSON or missing
// fields and maelstrom.NotSupported for an unknown discriminant.
type DecodeError struct {
	// Seq is the 1-based position of the message in the input stream, or 0
	// when the message was decoded on its own.
	Seq int
	Err *maelstrom.RPCError
}

func newDecodeError(code int, err error) *DecodeError {
	return &DecodeError{Err: maelstrom.NewRPCError(code, err.Error())}
}

func (e *DecodeError) Error() string {
	if e.Seq == 0 {
		return fmt.Sprintf("decode message: %s", e.Err.Text)
	}
	return fmt.Sprintf("decode message %d: %s", e.Seq, e.Err.Text)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Code returns the maelstrom error code classifying the failure.
func (e *DecodeError) Code() int { return e.Err.Code }

// DispatchError is returned when a request payload has no handler.
type DispatchError struct {
	Type string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch: no handler for payload %s", e.Type)
}

// EncodeError reports a reply that could not be serialized. It points at a
// programming error rather than an environmental one.
type EncodeError struct {
	Type string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s reply: %v", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// WriteError reports an output sink that rejected a reply.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write reply: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Phase names the processing step an error came from.
func Phase(err error) string {
	var (
		decodeErr   *DecodeError
		dispatchErr *DispatchError
		encodeErr   *EncodeError
		writeErr    *WriteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &writeErr):
		return "write"
	case errors.As(err, &encodeErr):
		return "encode"
	case errors.As(err, &dispatchErr):
		return "dispatch"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "unknown"
	}
}
