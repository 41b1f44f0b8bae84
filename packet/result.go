package packet

import (
	"math"

	"github.com/improvwifi/improv/errs"
	"github.com/pkg/errors"
)

// RPCResult is a multi-value result returned from the device: an ordered
// list of opaque byte strings, each limited to 255 bytes on the wire.
// Interpreting the values is the caller's business.
type RPCResult struct {
	Values [][]byte
}

func NewRPCResult(values ...[]byte) (RPCResult, error) {
	for _, v := range values {
		if len(v) > math.MaxUint8 {
			return RPCResult{}, errors.Wrap(errs.ErrBadLength, "result value exceeds one length byte")
		}
	}

	return RPCResult{Values: values}, nil
}

func (r RPCResult) Type() PacketType {
	return TypeRPCResult
}

// Payload concatenates the values in order, each prefixed by its own
// length byte.
func (r RPCResult) Payload() ([]byte, error) {
	size := 0
	for _, v := range r.Values {
		size += len(v) + 1
	}

	out := make([]byte, 0, size)

	for _, v := range r.Values {
		if len(v) > math.MaxUint8 {
			return nil, errors.Wrap(errs.ErrBadLength, "result value exceeds one length byte")
		}

		out = append(out, byte(len(v)))
		out = append(out, v...)
	}

	return out, nil
}

func (r RPCResult) Build() ([]byte, error) {
	return build(r)
}

func decodeRPCResult(payload []byte) (RPCResult, error) {
	values := [][]byte{}

	for i := 0; i < len(payload); {
		n := int(payload[i])
		i++

		if i+n > len(payload) {
			return RPCResult{}, errors.Wrap(errs.ErrBadLength, "result value overruns payload")
		}

		values = append(values, append([]byte{}, payload[i:i+n]...))
		i += n
	}

	return RPCResult{Values: values}, nil
}
