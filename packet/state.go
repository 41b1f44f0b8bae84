package packet

import (
	"fmt"

	"github.com/improvwifi/improv/errs"
	"github.com/pkg/errors"
)

// CurrentState reports the device's provisioning lifecycle phase. The
// constant values are the wire bytes themselves.
type CurrentState byte

const (
	StateReady        CurrentState = 0x02
	StateProvisioning CurrentState = 0x03
	StateProvisioned  CurrentState = 0x04
)

func (s CurrentState) Type() PacketType {
	return TypeCurrentState
}

func (s CurrentState) Payload() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Wrap(errs.ErrInvalidStateByte, "could not encode current state")
	}

	return []byte{byte(s)}, nil
}

func (s CurrentState) Build() ([]byte, error) {
	return build(s)
}

func (s CurrentState) Valid() bool {
	switch s {
	case StateReady, StateProvisioning, StateProvisioned:
		return true
	}

	return false
}

func (s CurrentState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateProvisioning:
		return "provisioning"
	case StateProvisioned:
		return "provisioned"
	}

	return fmt.Sprintf("unknown state 0x%02X", byte(s))
}

func decodeCurrentState(b byte) (CurrentState, error) {
	s := CurrentState(b)
	if !s.Valid() {
		return 0, errors.Wrap(errs.ErrInvalidStateByte, "could not decode current state")
	}

	return s, nil
}

// ErrorState reports the device's fault condition. As with CurrentState,
// the constant values are the wire bytes.
type ErrorState byte

const (
	ErrorNone              ErrorState = 0x00
	ErrorInvalidRPCPacket  ErrorState = 0x01
	ErrorUnknownRPCCommand ErrorState = 0x02
	ErrorUnableToConnect   ErrorState = 0x03
	ErrorUnknown           ErrorState = 0xFF
)

func (e ErrorState) Type() PacketType {
	return TypeErrorState
}

func (e ErrorState) Payload() ([]byte, error) {
	if !e.Valid() {
		return nil, errors.Wrap(errs.ErrInvalidErrorByte, "could not encode error state")
	}

	return []byte{byte(e)}, nil
}

func (e ErrorState) Build() ([]byte, error) {
	return build(e)
}

func (e ErrorState) Valid() bool {
	switch e {
	case ErrorNone, ErrorInvalidRPCPacket, ErrorUnknownRPCCommand, ErrorUnableToConnect, ErrorUnknown:
		return true
	}

	return false
}

func (e ErrorState) String() string {
	switch e {
	case ErrorNone:
		return "no error"
	case ErrorInvalidRPCPacket:
		return "invalid rpc packet"
	case ErrorUnknownRPCCommand:
		return "unknown rpc command"
	case ErrorUnableToConnect:
		return "unable to connect"
	case ErrorUnknown:
		return "unknown error"
	}

	return fmt.Sprintf("unknown error 0x%02X", byte(e))
}

func decodeErrorState(b byte) (ErrorState, error) {
	e := ErrorState(b)
	if !e.Valid() {
		return 0, errors.Wrap(errs.ErrInvalidErrorByte, "could not decode error state")
	}

	return e, nil
}
