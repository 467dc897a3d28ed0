package packet

import "io"

// SUBACK return codes (MQTT 3.1.1 section 3.9.3).
const (
	SubackMaxQoS0 byte = 0x00
	SubackMaxQoS1 byte = 0x01
	SubackMaxQoS2 byte = 0x02
	SubackFailure byte = 0x80
)

// TopicFilterQoS pairs a topic filter with the QoS requested for it.
type TopicFilterQoS struct {
	Filter string
	QoS    QoS
}

// Subscribe is an outbound SUBSCRIBE packet. Every SUBSCRIBE must request at
// least one filter and must carry a non-zero packet identifier.
type Subscribe struct {
	PacketID uint16
	Filters  []TopicFilterQoS
}

func (p *Subscribe) Encode(w io.Writer) error {
	remainingLength := uint32(2)
	for _, f := range p.Filters {
		remainingLength += uint32(2 + len(f.Filter) + 1)
	}

	fh := FixedHeader{Type: SUBSCRIBE, Flags: 0x02, RemainingLength: remainingLength}
	if err := fh.Encode(w); err != nil {
		return err
	}

	buf := make([]byte, 0, remainingLength)
	buf = writeUint16(buf, p.PacketID)
	var err error
	for _, f := range p.Filters {
		if buf, err = writeString(buf, f.Filter); err != nil {
			return err
		}
		buf = append(buf, byte(f.QoS))
	}

	_, err = w.Write(buf)
	return err
}

// Suback is an inbound SUBACK acknowledging a SUBSCRIBE. ReturnCodes has one
// entry per filter requested, in the same order, each either a granted QoS
// (0x00-0x02) or SubackFailure.
type Suback struct {
	PacketID    uint16
	ReturnCodes []byte
}

func DecodeSuback(body []byte) (*Suback, error) {
	pid, offset, err := readUint16(body, 0)
	if err != nil {
		return nil, err
	}
	if offset >= len(body) {
		return nil, ErrTruncatedPacket
	}
	return &Suback{
		PacketID:    pid,
		ReturnCodes: append([]byte(nil), body[offset:]...),
	}, nil
}

// Unsubscribe is an outbound UNSUBSCRIBE packet.
type Unsubscribe struct {
	PacketID uint16
	Filters  []string
}

func (p *Unsubscribe) Encode(w io.Writer) error {
	remainingLength := uint32(2)
	for _, f := range p.Filters {
		remainingLength += uint32(2 + len(f))
	}

	fh := FixedHeader{Type: UNSUBSCRIBE, Flags: 0x02, RemainingLength: remainingLength}
	if err := fh.Encode(w); err != nil {
		return err
	}

	buf := make([]byte, 0, remainingLength)
	buf = writeUint16(buf, p.PacketID)
	var err error
	for _, f := range p.Filters {
		if buf, err = writeString(buf, f); err != nil {
			return err
		}
	}

	_, err = w.Write(buf)
	return err
}

// Unsuback is an inbound UNSUBACK.
type Unsuback struct {
	PacketID uint16
}

func DecodeUnsuback(body []byte) (*Unsuback, error) {
	pid, _, err := readUint16(body, 0)
	if err != nil {
		return nil, err
	}
	return &Unsuback{PacketID: pid}, nil
}
