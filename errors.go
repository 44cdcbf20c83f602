package maelstrom

import (
	"errors"
	"fmt"
)

// Error stages reported by ErrorStage.
const (
	StageDecode   = "decode"
	StageEncode   = "encode"
	StageProtocol = "protocol"
)

// DecodeError is returned when input is not valid JSON or does not match the
// message schema.
type DecodeError struct {
	Err error
}

// Error returns a string-formatted error message.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode message: %s", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError is returned when a reply cannot be serialized or written.
type EncodeError struct {
	Err error
}

// Error returns a string-formatted error message.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode message: %s", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ProtocolViolation is returned when a peer sends a reply-only message type
// as if it were a request.
type ProtocolViolation struct {
	Src  string
	Type string
}

// Error returns a string-formatted error message.
func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation: unexpected %s from %q", e.Type, e.Src)
}

// ErrorStage returns the stage that produced err. Returns an empty string if
// err does not wrap one of the package error types.
func ErrorStage(err error) string {
	var (
		decodeErr   *DecodeError
		encodeErr   *EncodeError
		protocolErr *ProtocolViolation
	)
	switch {
	case errors.As(err, &decodeErr):
		return StageDecode
	case errors.As(err, &encodeErr):
		return StageEncode
	case errors.As(err, &protocolErr):
		return StageProtocol
	default:
		return ""
	}
}
