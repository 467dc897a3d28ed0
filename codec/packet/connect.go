package packet

import "io"

// ProtocolName and ProtocolLevel are fixed by MQTT 3.1.1 section 3.1.2.
const (
	ProtocolName  = "MQTT"
	ProtocolLevel = 4
)

// CONNACK return codes (MQTT 3.1.1 section 3.2.2.3).
const (
	ConnectAccepted                    byte = 0x00
	ConnectRefusedUnacceptableProtocol byte = 0x01
	ConnectRefusedIdentifierRejected   byte = 0x02
	ConnectRefusedServerUnavailable    byte = 0x03
	ConnectRefusedBadUsernamePassword  byte = 0x04
	ConnectRefusedNotAuthorized        byte = 0x05
)

// Connect is an outbound CONNECT packet.
type Connect struct {
	CleanSession bool
	WillFlag     bool
	WillQoS      QoS
	WillRetain   bool
	KeepAlive    uint16
	ClientID     string
	WillTopic    string
	WillPayload  []byte
	Username     string
	HasUsername  bool
	Password     []byte
	HasPassword  bool
}

// Encode writes the CONNECT packet to w.
func (p *Connect) Encode(w io.Writer) error {
	varHeaderLen := 2 + len(ProtocolName) + 1 + 1 + 2
	payloadLen := 2 + len(p.ClientID)

	if p.WillFlag {
		payloadLen += 2 + len(p.WillTopic)
		payloadLen += 2 + len(p.WillPayload)
	}
	if p.HasUsername {
		payloadLen += 2 + len(p.Username)
	}
	if p.HasPassword {
		payloadLen += 2 + len(p.Password)
	}

	fh := FixedHeader{Type: CONNECT, RemainingLength: uint32(varHeaderLen + payloadLen)}
	if err := fh.Encode(w); err != nil {
		return err
	}

	buf := make([]byte, 0, varHeaderLen+payloadLen)
	var err error
	if buf, err = writeString(buf, ProtocolName); err != nil {
		return err
	}
	buf = append(buf, ProtocolLevel)

	var flags byte
	if p.CleanSession {
		flags |= 0x02
	}
	if p.WillFlag {
		flags |= 0x04
		flags |= byte(p.WillQoS) << 3
		if p.WillRetain {
			flags |= 0x20
		}
	}
	if p.HasPassword {
		flags |= 0x40
	}
	if p.HasUsername {
		flags |= 0x80
	}
	buf = append(buf, flags)
	buf = writeUint16(buf, p.KeepAlive)

	if buf, err = writeString(buf, p.ClientID); err != nil {
		return err
	}
	if p.WillFlag {
		if buf, err = writeString(buf, p.WillTopic); err != nil {
			return err
		}
		if buf, err = writeBinary(buf, p.WillPayload); err != nil {
			return err
		}
	}
	if p.HasUsername {
		if buf, err = writeString(buf, p.Username); err != nil {
			return err
		}
	}
	if p.HasPassword {
		if buf, err = writeBinary(buf, p.Password); err != nil {
			return err
		}
	}

	_, err = w.Write(buf)
	return err
}

// Connack is an inbound CONNACK packet.
type Connack struct {
	SessionPresent bool
	ReturnCode     byte
}

// DecodeConnack decodes a CONNACK variable header from body, which must be
// exactly the RemainingLength bytes following the fixed header.
func DecodeConnack(body []byte) (*Connack, error) {
	if len(body) != 2 {
		return nil, ErrTruncatedPacket
	}
	return &Connack{
		SessionPresent: body[0]&0x01 != 0,
		ReturnCode:     body[1],
	}, nil
}
