package packet

import (
	"bytes"

	"github.com/improvwifi/improv/errs"
	"github.com/pkg/errors"
)

// Decode parses one complete frame into a Packet. The input must contain
// exactly one frame; extracting frames from a byte stream is the
// transport's problem.
//
// Validation order is fixed so error reporting is deterministic: magic,
// version, outer length, checksum, then type tag dispatch. Every
// length-derived offset is checked against the buffer before use, so
// malformed input yields a typed error rather than a panic.
func Decode(frame []byte) (Packet, error) {
	if !bytes.HasPrefix(frame, Magic) {
		return nil, errors.Wrap(errs.ErrNotImprovPacket, "bad magic preamble")
	}

	if len(frame) < Overhead {
		return nil, errors.Wrap(errs.ErrBadLength, "frame shorter than envelope")
	}

	if frame[6] != Version {
		return nil, errors.Wrap(errs.ErrUnsupportedVersion, "could not decode frame")
	}

	if int(frame[8]) != len(frame)-Overhead {
		return nil, errors.Wrap(errs.ErrBadLength, "declared payload length does not match frame")
	}

	if Checksum(frame[:len(frame)-1]) != frame[len(frame)-1] {
		return nil, errors.Wrap(errs.ErrBadChecksum, "could not decode frame")
	}

	payload := frame[HeaderLen : len(frame)-1]

	switch PacketType(frame[7]) {
	case TypeCurrentState:
		if len(payload) != 1 {
			return nil, errors.Wrap(errs.ErrBadLength, "current state payload must be one byte")
		}

		s, err := decodeCurrentState(payload[0])
		if err != nil {
			return nil, err
		}

		return s, nil
	case TypeErrorState:
		if len(payload) != 1 {
			return nil, errors.Wrap(errs.ErrBadLength, "error state payload must be one byte")
		}

		e, err := decodeErrorState(payload[0])
		if err != nil {
			return nil, err
		}

		return e, nil
	case TypeRPCCommand:
		c, err := decodeRPCCommand(payload)
		if err != nil {
			return nil, err
		}

		return c, nil
	case TypeRPCResult:
		r, err := decodeRPCResult(payload)
		if err != nil {
			return nil, err
		}

		return r, nil
	}

	return nil, errors.Wrap(errs.ErrUnsupportedPacket, "unknown type tag")
}
