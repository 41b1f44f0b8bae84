package errs

import "errors"

// Decode errors. Each one names exactly one violated precondition so that
// callers can tell apart garbage input from a genuinely unsupported frame.
var (
	ErrNotImprovPacket    = errors.New("not an improv packet")
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
	ErrBadLength          = errors.New("declared length does not match payload")
	ErrBadChecksum        = errors.New("checksum mismatch")
	ErrInvalidStateByte   = errors.New("invalid current state byte")
	ErrInvalidErrorByte   = errors.New("invalid error state byte")
	ErrInvalidCommand     = errors.New("invalid rpc command opcode")
	ErrInvalidEncoding    = errors.New("string payload is not valid utf-8")
	ErrUnsupportedPacket  = errors.New("unsupported packet type")
)

// Client errors.
var (
	ErrNotConnected = errors.New("not connected")
	ErrQueueTimeout = errors.New("queue operation timed out")
	ErrClosed       = errors.New("client closed")
)
