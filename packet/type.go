package packet

// PacketType is the type tag carried at offset 7 of every frame. It names
// one of the four packet categories, independent of any enumerated value
// inside the payload.
type PacketType byte

const (
	TypeCurrentState PacketType = 0x01
	TypeErrorState   PacketType = 0x02
	TypeRPCCommand   PacketType = 0x03
	TypeRPCResult    PacketType = 0x04
)

// Version is the only protocol version this library speaks.
const Version byte = 0x01

// Magic is the six byte preamble opening every frame.
var Magic = []byte("IMPROV")

const (
	// HeaderLen covers magic, version, type tag and payload length byte.
	HeaderLen = 9

	// Overhead is HeaderLen plus the trailing checksum byte. A frame
	// carrying an N byte payload is always Overhead+N bytes long.
	Overhead = 10
)
