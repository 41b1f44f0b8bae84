package improv

import (
	"io"
	"sync"
	"time"

	"github.com/improvwifi/improv/errs"
	"github.com/improvwifi/improv/packet"
	"github.com/pkg/errors"
)

// StateHandler is called with every CurrentState report the device sends.
type StateHandler func(packet.CurrentState)

// ErrorHandler is called with every ErrorState report the device sends.
type ErrorHandler func(packet.ErrorState)

// ResultHandler is called with every RPCResult the device sends. The
// client decodes the values but assigns no meaning to them.
type ResultHandler func(packet.RPCResult)

// DisconnectHandler is called when the transport goes away. The bool is
// true when the disconnect was requested via Close.
type DisconnectHandler func(error, bool)

type Config struct {
	// QueueWriteTimeout is the timeout for handing a packet to the writer
	// routine. If the writer is wedged on a slow transport, Send calls fail
	// with errs.ErrQueueTimeout after this long.
	//
	// Default: 250ms
	QueueWriteTimeout time.Duration

	// TrailingWakeByte makes the client write one extra 0x01 byte after
	// every frame. Some firmwares sit on the final byte of a serial write
	// until another arrives; this is a transport quirk, not part of the
	// wire format, so it is off by default.
	TrailingWakeByte bool

	// StateHandler receives unsolicited CurrentState reports.
	StateHandler StateHandler

	// ErrorHandler receives unsolicited ErrorState reports.
	ErrorHandler ErrorHandler

	// ResultHandler receives RPC results.
	ResultHandler ResultHandler

	// DisconnectHandler is called once when the client shuts down.
	DisconnectHandler DisconnectHandler
}

// Client drives the Improv protocol over any byte-oriented transport,
// typically an open serial port. It owns the transport once started and
// closes it on shutdown.
type Client struct {
	*Config
	transport io.ReadWriteCloser
	writeLock sync.Mutex
	log       Logger

	terminate  chan uint8
	waitGroup  *sync.WaitGroup
	wgLock     sync.Mutex
	writeQueue chan packet.Packet
	closeOnce  sync.Once
}

const DefaultQueueWriteTimeout = time.Millisecond * 250

func NewClient(transport io.ReadWriteCloser, config *Config, logger Logger) *Client {
	if config == nil {
		config = &Config{}
	}

	c := &Client{
		Config:     config,
		transport:  transport,
		log:        &DefaultLogger{},
		waitGroup:  &sync.WaitGroup{},
		terminate:  make(chan uint8),
		writeQueue: make(chan packet.Packet),
	}

	if logger != nil {
		c.log = logger
	}

	if c.QueueWriteTimeout <= 0 {
		c.QueueWriteTimeout = DefaultQueueWriteTimeout
	}

	return c
}

func (c *Client) SetStateHandler(handler StateHandler) {
	c.StateHandler = handler
}

func (c *Client) SetErrorHandler(handler ErrorHandler) {
	c.ErrorHandler = handler
}

func (c *Client) SetResultHandler(handler ResultHandler) {
	c.ResultHandler = handler
}

func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.DisconnectHandler = handler
}

// Start spawns the writer and reader routines. The transport must already
// be open; the client performs no handshake, since Improv has none.
func (c *Client) Start() error {
	if c.transport == nil {
		return errors.Wrap(errs.ErrNotConnected, "no transport configured")
	}

	c.log.Debug("Starting writer routine")
	go func() {
		c.wgLock.Lock()
		c.waitGroup.Add(1)
		c.wgLock.Unlock()
		c.startWriter()
	}()

	c.log.Debug("Starting reader routine")
	go func() {
		c.wgLock.Lock()
		c.waitGroup.Add(1)
		c.wgLock.Unlock()
		c.startReader()
	}()

	return nil
}

func (c *Client) startWriter() {
	defer func() {
		c.wgLock.Lock()
		c.waitGroup.Done()
		c.wgLock.Unlock()
		c.log.Debug("Writer routine terminated")
	}()

	for {
		select {
		case p := <-c.writeQueue:
			if err := c.sendPacket(p); err != nil {
				c.log.Error("Could not write packet. Error: ", err)
			}
		case <-c.terminate:
			c.log.Debug("Writer routine received termination signal")
			return
		}
	}
}

func (c *Client) startReader() {
	defer func() {
		c.wgLock.Lock()
		c.waitGroup.Done()
		c.wgLock.Unlock()
		c.log.Debug("Reader routine terminated")
	}()

	reader := c.newFrameReader()

	for {
		select {
		case <-c.terminate:
			c.log.Debug("Reader routine received termination signal")
			return
		default:
		}

		frame, err := reader.readFrame()
		if err != nil {
			switch errors.Cause(err) {
			case io.EOF, io.ErrUnexpectedEOF:
				c.log.Error("Disconnected by the device. Error: ", err)
				c.disconnect(err)
				return
			case io.ErrClosedPipe:
				c.log.Error("Attempted to read from a closed pipe. Error: ", err)
				c.disconnect(err)
				return
			default:
				c.log.Debug("Reader error: ", err)
				continue
			}
		}

		p, err := packet.Decode(frame)
		if err != nil {
			c.log.Debug("Discarding undecodable frame. Error: ", err)
			continue
		}

		c.dispatch(p)
	}
}

// dispatch hands a decoded packet to the matching handler. The device
// never sends RPCCommand frames, so those and anything else unexpected
// just get logged.
func (c *Client) dispatch(p packet.Packet) {
	switch v := p.(type) {
	case packet.CurrentState:
		c.log.Debug("Device state: ", v)

		if c.StateHandler != nil {
			c.StateHandler(v)
		}
	case packet.ErrorState:
		c.log.Debug("Device error: ", v)

		if c.ErrorHandler != nil {
			c.ErrorHandler(v)
		}
	case packet.RPCResult:
		c.log.Debug("RPC result with ", len(v.Values), " values")

		if c.ResultHandler != nil {
			c.ResultHandler(v)
		}
	default:
		c.log.Debug("No handler for packet type ", p.Type())
	}
}

func (c *Client) Close() error {
	c.log.Debug("Close called")

	if c.transport == nil {
		return errs.ErrNotConnected
	}

	c.disconnect(nil)

	return nil
}

func (c *Client) disconnect(err error) {
	// Closing the termination channel makes all routines return. disconnect
	// can race between Close and the reader noticing EOF, hence the Once.
	c.closeOnce.Do(func() {
		close(c.terminate)

		_ = c.transport.Close()

		if c.DisconnectHandler != nil {
			c.DisconnectHandler(err, err == nil)
		}
	})
}

func (c *Client) WaitGroup() *sync.WaitGroup {
	return c.waitGroup
}

// RequestCurrentState asks the device to report its provisioning state.
func (c *Client) RequestCurrentState() error {
	return c.enqueuePacket(packet.NewRequestCurrentState())
}

// RequestDeviceInformation asks the device to report firmware and
// hardware details via an RPC result.
func (c *Client) RequestDeviceInformation() error {
	return c.enqueuePacket(packet.NewRequestDeviceInformation())
}

// RequestScannedWifiNetworks asks the device for the networks it can see.
func (c *Client) RequestScannedWifiNetworks() error {
	return c.enqueuePacket(packet.NewRequestScannedWifiNetworks())
}

// SendWifiSettings delivers credentials to the device. The ssid and psk
// must each fit in 255 bytes and be valid UTF-8.
func (c *Client) SendWifiSettings(ssid, psk string) error {
	p, err := packet.NewSendWifiSettings(ssid, psk)
	if err != nil {
		return errors.Wrap(err, "could not build wifi settings command")
	}

	return c.enqueuePacket(p)
}

// Send queues an arbitrary packet. Useful when acting as the device side
// of the protocol, e.g. reporting state or results.
func (c *Client) Send(p packet.Packet) error {
	return c.enqueuePacket(p)
}

func (c *Client) enqueuePacket(p packet.Packet) error {
	select {
	case c.writeQueue <- p:
		c.log.Debug("Packet queued, type: ", p.Type())
		return nil
	case <-c.terminate:
		return errors.Wrap(errs.ErrClosed, "client is shut down")
	case <-time.After(c.QueueWriteTimeout):
		c.log.Debug("Packet queue timed out, type: ", p.Type())
		return errors.Wrap(errs.ErrQueueTimeout, "packet queue operation timed out")
	}
}
