package packet

import (
	"testing"

	"github.com/franela/goblin"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/improvwifi/improv/errs"
)

// testFrame assembles a frame around payload with a correct checksum so
// tests can build arbitrary inputs without hardcoding sums.
func testFrame(tag byte, payload []byte) []byte {
	frame := append([]byte("IMPROV"), Version, tag, byte(len(payload)))
	frame = append(frame, payload...)

	return append(frame, Checksum(frame))
}

func TestEncode(t *testing.T) {
	g := goblin.Goblin(t)

	// Special hook for gomega
	RegisterFailHandler(func(m string, _ ...int) { g.Fail(m) })

	g.Describe("Building packets", func() {
		g.Describe("RPCCommand", func() {
			g.It("Should encode a request for the current state", func() {
				got, err := NewRequestCurrentState().Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal([]byte{
					0x49, 0x4D, 0x50, 0x52, 0x4F, 0x56, 0x01, 0x03, 0x02, 0x02, 0x00, 0xE5,
				}))
			})

			g.It("Should encode a request for device information", func() {
				got, err := NewRequestDeviceInformation().Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal([]byte{
					0x49, 0x4D, 0x50, 0x52, 0x4F, 0x56, 0x01, 0x03, 0x02, 0x03, 0x00, 0xE6,
				}))
			})

			g.It("Should encode a request for scanned wifi networks", func() {
				got, err := NewRequestScannedWifiNetworks().Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal([]byte{
					0x49, 0x4D, 0x50, 0x52, 0x4F, 0x56, 0x01, 0x03, 0x02, 0x04, 0x00, 0xE7,
				}))
			})

			g.It("Should encode wifi settings with length-prefixed credentials", func() {
				p, err := NewSendWifiSettings("anthill", "ants in my pants")
				Expect(err).To(BeNil())

				got, err := p.Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal([]byte{
					0x49, 0x4D, 0x50, 0x52, 0x4F, 0x56, 0x01, 0x03, 0x1B, 0x01, 0x19, 0x07, 0x61, 0x6E,
					0x74, 0x68, 0x69, 0x6C, 0x6C, 0x10, 0x61, 0x6E, 0x74, 0x73, 0x20, 0x69, 0x6E, 0x20,
					0x6D, 0x79, 0x20, 0x70, 0x61, 0x6E, 0x74, 0x73, 0x12,
				}))
			})

			g.It("Should reject an unrecognized opcode", func() {
				_, err := RPCCommand{Command: Command(0x7F)}.Build()

				Expect(errors.Cause(err)).To(Equal(errs.ErrInvalidCommand))
			})
		})

		g.Describe("CurrentState", func() {
			g.It("Should encode a one byte payload", func() {
				got, err := StateReady.Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal([]byte{
					0x49, 0x4D, 0x50, 0x52, 0x4F, 0x56, 0x01, 0x01, 0x01, 0x02, 0xE2,
				}))
			})

			g.It("Should reject an invalid state value", func() {
				_, err := CurrentState(0x05).Build()

				Expect(errors.Cause(err)).To(Equal(errs.ErrInvalidStateByte))
			})
		})

		g.Describe("ErrorState", func() {
			g.It("Should encode a one byte payload", func() {
				got, err := ErrorUnableToConnect.Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal(testFrame(byte(TypeErrorState), []byte{0x03})))
			})

			g.It("Should reject an invalid error value", func() {
				_, err := ErrorState(0x42).Build()

				Expect(errors.Cause(err)).To(Equal(errs.ErrInvalidErrorByte))
			})
		})

		g.Describe("RPCResult", func() {
			g.It("Should concatenate length-prefixed values", func() {
				r, err := NewRPCResult([]byte("foo"), []byte("bar"))
				Expect(err).To(BeNil())

				got, err := r.Build()

				Expect(err).To(BeNil())
				Expect(got).To(Equal(testFrame(byte(TypeRPCResult), []byte{
					0x03, 'f', 'o', 'o', 0x03, 'b', 'a', 'r',
				})))
			})
		})

		g.Describe("Checksum trailer", func() {
			g.It("Should equal the additive sum of every preceding byte", func() {
				packets := []Packet{
					StateProvisioning,
					ErrorNone,
					NewRequestDeviceInformation(),
					RPCResult{Values: [][]byte{[]byte("esp32")}},
				}

				for _, p := range packets {
					frame, err := p.Build()

					Expect(err).To(BeNil())
					Expect(Checksum(frame[:len(frame)-1])).To(Equal(frame[len(frame)-1]))
				}
			})
		})

		g.Describe("Declared payload length", func() {
			g.It("Should always equal the frame length minus the envelope", func() {
				p, err := NewSendWifiSettings("ssid", "a much longer psk value")
				Expect(err).To(BeNil())

				frame, err := p.Build()

				Expect(err).To(BeNil())
				Expect(int(frame[8])).To(Equal(len(frame) - Overhead))
			})
		})
	})

	g.Describe("NewWifiSettings()", func() {
		g.It("Should accept credentials up to 255 bytes", func() {
			long := make([]byte, 255)
			for i := range long {
				long[i] = 'a'
			}

			_, err := NewWifiSettings(string(long), "psk")

			Expect(err).To(BeNil())
		})

		g.It("Should reject credentials longer than one length byte", func() {
			long := make([]byte, 256)
			for i := range long {
				long[i] = 'a'
			}

			_, err := NewWifiSettings(string(long), "psk")

			Expect(errors.Cause(err)).To(Equal(errs.ErrBadLength))
		})

		g.It("Should reject credentials which are not valid utf-8", func() {
			_, err := NewWifiSettings("ok", string([]byte{0xFF, 0xFE}))

			Expect(errors.Cause(err)).To(Equal(errs.ErrInvalidEncoding))
		})
	})

	g.Describe("NewRPCResult()", func() {
		g.It("Should reject values longer than one length byte", func() {
			_, err := NewRPCResult(make([]byte, 256))

			Expect(errors.Cause(err)).To(Equal(errs.ErrBadLength))
		})
	})
}
