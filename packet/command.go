package packet

import (
	"math"
	"unicode/utf8"

	"github.com/improvwifi/improv/errs"
	"github.com/pkg/errors"
)

// Command identifies an RPC operation within an RPCCommand payload. It is
// distinct from the outer type tag.
type Command byte

const (
	CmdSendWifiSettings           Command = 0x01
	CmdRequestCurrentState        Command = 0x02
	CmdRequestDeviceInformation   Command = 0x03
	CmdRequestScannedWifiNetworks Command = 0x04
)

// WifiSettings carries the credentials delivered by CmdSendWifiSettings.
// Each string is limited to 255 bytes on the wire.
type WifiSettings struct {
	SSID string
	PSK  string
}

// NewWifiSettings validates credentials at construction time: each string
// must fit a single length byte and be valid UTF-8. Encoding does not
// re-validate, so build WifiSettings through here.
func NewWifiSettings(ssid, psk string) (WifiSettings, error) {
	if len(ssid) > math.MaxUint8 || len(psk) > math.MaxUint8 {
		return WifiSettings{}, errors.Wrap(errs.ErrBadLength, "credential exceeds one length byte")
	}

	if !utf8.ValidString(ssid) || !utf8.ValidString(psk) {
		return WifiSettings{}, errors.Wrap(errs.ErrInvalidEncoding, "credential is not valid utf-8")
	}

	return WifiSettings{SSID: ssid, PSK: psk}, nil
}

func (w WifiSettings) encode() []byte {
	out := make([]byte, 0, len(w.SSID)+len(w.PSK)+2)

	out = append(out, byte(len(w.SSID)))
	out = append(out, w.SSID...)
	out = append(out, byte(len(w.PSK)))
	out = append(out, w.PSK...)

	return out
}

// RPCCommand is a command packet sent to the device. Settings is only
// consulted when Command is CmdSendWifiSettings.
type RPCCommand struct {
	Command  Command
	Settings WifiSettings
}

func NewSendWifiSettings(ssid, psk string) (RPCCommand, error) {
	w, err := NewWifiSettings(ssid, psk)
	if err != nil {
		return RPCCommand{}, err
	}

	return RPCCommand{Command: CmdSendWifiSettings, Settings: w}, nil
}

func NewRequestCurrentState() RPCCommand {
	return RPCCommand{Command: CmdRequestCurrentState}
}

func NewRequestDeviceInformation() RPCCommand {
	return RPCCommand{Command: CmdRequestDeviceInformation}
}

func NewRequestScannedWifiNetworks() RPCCommand {
	return RPCCommand{Command: CmdRequestScannedWifiNetworks}
}

func (c RPCCommand) Type() PacketType {
	return TypeRPCCommand
}

// Payload lays out the opcode, the sub-payload length, then the
// sub-payload. The three request commands carry an empty sub-payload.
func (c RPCCommand) Payload() ([]byte, error) {
	switch c.Command {
	case CmdSendWifiSettings:
		inner := c.Settings.encode()
		if len(inner) > math.MaxUint8 {
			return nil, errors.Wrap(errs.ErrBadLength, "wifi settings exceed one length byte")
		}

		out := make([]byte, 0, len(inner)+2)
		out = append(out, byte(c.Command), byte(len(inner)))

		return append(out, inner...), nil
	case CmdRequestCurrentState, CmdRequestDeviceInformation, CmdRequestScannedWifiNetworks:
		return []byte{byte(c.Command), 0x00}, nil
	}

	return nil, errors.Wrap(errs.ErrInvalidCommand, "could not encode rpc command")
}

func (c RPCCommand) Build() ([]byte, error) {
	return build(c)
}

func decodeRPCCommand(payload []byte) (RPCCommand, error) {
	if len(payload) < 2 {
		return RPCCommand{}, errors.Wrap(errs.ErrBadLength, "rpc command payload too short")
	}

	if int(payload[1]) != len(payload)-2 {
		return RPCCommand{}, errors.Wrap(errs.ErrBadLength, "rpc sub-payload length mismatch")
	}

	switch Command(payload[0]) {
	case CmdSendWifiSettings:
		w, err := decodeWifiSettings(payload[2:])
		if err != nil {
			return RPCCommand{}, err
		}

		return RPCCommand{Command: CmdSendWifiSettings, Settings: w}, nil
	case CmdRequestCurrentState:
		return NewRequestCurrentState(), nil
	case CmdRequestDeviceInformation:
		return NewRequestDeviceInformation(), nil
	case CmdRequestScannedWifiNetworks:
		return NewRequestScannedWifiNetworks(), nil
	}

	return RPCCommand{}, errors.Wrap(errs.ErrInvalidCommand, "could not decode rpc command")
}

func decodeWifiSettings(body []byte) (WifiSettings, error) {
	if len(body) < 1 {
		return WifiSettings{}, errors.Wrap(errs.ErrBadLength, "missing ssid length byte")
	}

	ssidLen := int(body[0])
	if 1+ssidLen >= len(body) {
		return WifiSettings{}, errors.Wrap(errs.ErrBadLength, "ssid overruns sub-payload")
	}

	ssid := body[1 : 1+ssidLen]

	pskLen := int(body[1+ssidLen])
	psk := body[2+ssidLen:]
	if len(psk) != pskLen {
		return WifiSettings{}, errors.Wrap(errs.ErrBadLength, "psk overruns sub-payload")
	}

	if !utf8.Valid(ssid) || !utf8.Valid(psk) {
		return WifiSettings{}, errors.Wrap(errs.ErrInvalidEncoding, "credential is not valid utf-8")
	}

	return WifiSettings{SSID: string(ssid), PSK: string(psk)}, nil
}
