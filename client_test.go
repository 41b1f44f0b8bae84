package improv

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/franela/goblin"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/improvwifi/improv/errs"
	"github.com/improvwifi/improv/packet"
)

func TestClient(t *testing.T) {
	g := goblin.Goblin(t)

	// Special hook for gomega
	RegisterFailHandler(func(m string, _ ...int) { g.Fail(m) })

	g.Describe("Client", func() {
		var client *Client
		var device net.Conn

		g.BeforeEach(func() {
			var transport net.Conn
			transport, device = net.Pipe()

			client = NewClient(transport, &Config{}, nil)
		})

		g.AfterEach(func() {
			_ = client.Close()
		})

		g.Describe("Start()", func() {
			g.It("Should require a transport", func() {
				c := NewClient(nil, nil, nil)

				Expect(errors.Cause(c.Start())).To(Equal(errs.ErrNotConnected))
			})
		})

		g.Describe("RequestCurrentState()", func() {
			g.It("Should write the expected frame", func() {
				Expect(client.Start()).To(BeNil())
				Expect(client.RequestCurrentState()).To(BeNil())

				frame := make([]byte, 12)
				_, err := io.ReadFull(device, frame)

				Expect(err).To(BeNil())
				Expect(frame).To(Equal([]byte{
					0x49, 0x4D, 0x50, 0x52, 0x4F, 0x56, 0x01, 0x03, 0x02, 0x02, 0x00, 0xE5,
				}))
			})
		})

		g.Describe("SendWifiSettings()", func() {
			g.It("Should reject an oversized credential before queuing", func() {
				long := make([]byte, 256)
				for i := range long {
					long[i] = 'a'
				}

				err := client.SendWifiSettings(string(long), "psk")

				Expect(errors.Cause(err)).To(Equal(errs.ErrBadLength))
			})
		})

		g.Describe("TrailingWakeByte", func() {
			g.It("Should append one extra byte after the frame", func() {
				client.TrailingWakeByte = true

				Expect(client.Start()).To(BeNil())
				Expect(client.RequestCurrentState()).To(BeNil())

				out := make([]byte, 13)
				_, err := io.ReadFull(device, out)

				Expect(err).To(BeNil())
				Expect(out[12]).To(Equal(byte(0x01)))
			})
		})

		g.Describe("Reading device packets", func() {
			g.It("Should dispatch state reports, skipping log noise", func() {
				states := make(chan packet.CurrentState, 1)
				client.StateHandler = func(s packet.CurrentState) {
					states <- s
				}

				Expect(client.Start()).To(BeNil())

				frame, err := packet.StateProvisioned.Build()
				Expect(err).To(BeNil())

				// Devices write free-form boot text between frames; the
				// reader must sync past it.
				_, err = device.Write(append([]byte("boot: radio up\r\n"), frame...))
				Expect(err).To(BeNil())

				select {
				case s := <-states:
					Expect(s).To(Equal(packet.StateProvisioned))
				case <-time.After(time.Second):
					g.Fail("timed out waiting for state report")
				}
			})

			g.It("Should dispatch error reports", func() {
				reports := make(chan packet.ErrorState, 1)
				client.ErrorHandler = func(e packet.ErrorState) {
					reports <- e
				}

				Expect(client.Start()).To(BeNil())

				frame, err := packet.ErrorUnableToConnect.Build()
				Expect(err).To(BeNil())

				_, err = device.Write(frame)
				Expect(err).To(BeNil())

				select {
				case e := <-reports:
					Expect(e).To(Equal(packet.ErrorUnableToConnect))
				case <-time.After(time.Second):
					g.Fail("timed out waiting for error report")
				}
			})

			g.It("Should dispatch rpc results", func() {
				results := make(chan packet.RPCResult, 1)
				client.ResultHandler = func(r packet.RPCResult) {
					results <- r
				}

				Expect(client.Start()).To(BeNil())

				result, err := packet.NewRPCResult([]byte("fw 1.2.3"))
				Expect(err).To(BeNil())

				frame, err := result.Build()
				Expect(err).To(BeNil())

				_, err = device.Write(frame)
				Expect(err).To(BeNil())

				select {
				case r := <-results:
					Expect(r.Values).To(Equal([][]byte{[]byte("fw 1.2.3")}))
				case <-time.After(time.Second):
					g.Fail("timed out waiting for rpc result")
				}
			})
		})

		g.Describe("Close()", func() {
			g.It("Should report an expected disconnect", func() {
				done := make(chan bool, 1)
				client.DisconnectHandler = func(err error, expected bool) {
					done <- expected
				}

				Expect(client.Start()).To(BeNil())
				Expect(client.Close()).To(BeNil())

				select {
				case expected := <-done:
					Expect(expected).To(BeTrue())
				case <-time.After(time.Second):
					g.Fail("timed out waiting for disconnect")
				}
			})

			g.It("Should report an unexpected disconnect when the device goes away", func() {
				done := make(chan bool, 1)
				client.DisconnectHandler = func(err error, expected bool) {
					done <- expected
				}

				Expect(client.Start()).To(BeNil())
				Expect(device.Close()).To(BeNil())

				select {
				case expected := <-done:
					Expect(expected).To(BeFalse())
				case <-time.After(time.Second):
					g.Fail("timed out waiting for disconnect")
				}
			})
		})
	})
}
