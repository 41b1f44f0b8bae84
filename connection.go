package improv

import (
	"bufio"
	"bytes"
	"io"

	"github.com/improvwifi/improv/packet"
	"github.com/pkg/errors"
)

func (c *Client) sendPacket(p packet.Packet) error {
	out, err := p.Build()
	if err != nil {
		return errors.Wrap(err, "could not build packet")
	}

	if c.TrailingWakeByte {
		out = append(out, 0x01)
	}

	if err := c.write(out); err != nil {
		return errors.Wrap(err, "could not write packet")
	}

	return nil
}

func (c *Client) write(data []byte) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if _, err := c.transport.Write(data); err != nil {
		return err
	}

	return nil
}

// frameReader extracts complete frames from the transport's byte stream.
// Devices are free to write plain log text between frames, so anything
// before the magic preamble is discarded.
type frameReader struct {
	reader *bufio.Reader
}

func (c *Client) newFrameReader() *frameReader {
	return &frameReader{reader: bufio.NewReader(c.transport)}
}

func (fr *frameReader) readFrame() ([]byte, error) {
	if err := fr.syncToMagic(); err != nil {
		return nil, err
	}

	frame := make([]byte, 0, packet.Overhead)
	frame = append(frame, packet.Magic...)

	header := make([]byte, 3) // version, type tag, payload length
	if _, err := io.ReadFull(fr.reader, header); err != nil {
		return nil, errors.Wrap(err, "could not read frame header")
	}
	frame = append(frame, header...)

	rest := make([]byte, int(header[2])+1) // payload plus checksum byte
	if _, err := io.ReadFull(fr.reader, rest); err != nil {
		return nil, errors.Wrap(err, "could not read frame payload")
	}

	return append(frame, rest...), nil
}

// syncToMagic consumes the stream up to and including the next magic
// preamble.
func (fr *frameReader) syncToMagic() error {
	for {
		b, err := fr.reader.ReadByte()
		if err != nil {
			return errors.Wrap(err, "could not read stream")
		}

		if b != packet.Magic[0] {
			continue
		}

		rest, err := fr.reader.Peek(len(packet.Magic) - 1)
		if err != nil {
			return errors.Wrap(err, "could not read stream")
		}

		if !bytes.Equal(rest, packet.Magic[1:]) {
			continue
		}

		if _, err := fr.reader.Discard(len(packet.Magic) - 1); err != nil {
			return errors.Wrap(err, "could not read stream")
		}

		return nil
	}
}
