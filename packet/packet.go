package packet

import (
	"bytes"
	"math"

	"github.com/improvwifi/improv/errs"
	"github.com/pkg/errors"
)

// Packet is one complete Improv protocol message. The concrete types are
// CurrentState, ErrorState, RPCCommand and RPCResult; the set is closed.
type Packet interface {
	Type() PacketType
	Payload() ([]byte, error)
	Build() ([]byte, error)
}

// build assembles the full wire frame around a packet's payload: magic
// preamble, version, type tag, payload length, payload, then the additive
// checksum over everything written so far.
func build(p Packet) ([]byte, error) {
	inner, err := p.Payload()
	if err != nil {
		return nil, errors.Wrap(err, "could not encode packet payload")
	}

	if len(inner) > math.MaxUint8 {
		return nil, errors.Wrap(errs.ErrBadLength, "payload exceeds one length byte")
	}

	buffer := bytes.NewBuffer(make([]byte, 0, Overhead+len(inner)))

	buffer.Write(Magic)
	buffer.WriteByte(Version)
	buffer.WriteByte(byte(p.Type()))
	buffer.WriteByte(byte(len(inner)))
	buffer.Write(inner)
	buffer.WriteByte(Checksum(buffer.Bytes()))

	return buffer.Bytes(), nil
}

// Checksum is the unsigned 8-bit wraparound sum of data.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return sum
}
