package packet

import "io"

// Publish is a PUBLISH packet, inbound or outbound. PacketID is only present
// on the wire (and only valid) when QoS is QoS1.
type Publish struct {
	DUP      bool
	QoS      QoS
	Retain   bool
	Topic    string
	PacketID uint16
	Payload  []byte
}

// Encode writes the PUBLISH packet to w.
func (p *Publish) Encode(w io.Writer) error {
	if p.QoS == QoS2 {
		return ErrUnsupportedQoS
	}

	remainingLength := uint32(2 + len(p.Topic) + len(p.Payload))
	if p.QoS == QoS1 {
		remainingLength += 2
	}

	fh := FixedHeader{
		Type:            PUBLISH,
		RemainingLength: remainingLength,
		DUP:             p.DUP,
		QoS:             p.QoS,
		Retain:          p.Retain,
	}
	if err := fh.Encode(w); err != nil {
		return err
	}

	buf := make([]byte, 0, remainingLength)
	var err error
	if buf, err = writeString(buf, p.Topic); err != nil {
		return err
	}
	if p.QoS == QoS1 {
		buf = writeUint16(buf, p.PacketID)
	}
	buf = append(buf, p.Payload...)

	_, err = w.Write(buf)
	return err
}

// DecodePublish decodes a PUBLISH variable header and payload from body
// (the RemainingLength bytes following the fixed header), using the QoS
// already decoded into fh.
func DecodePublish(fh *FixedHeader, body []byte) (*Publish, error) {
	topic, offset, err := readString(body, 0)
	if err != nil {
		return nil, err
	}

	p := &Publish{
		DUP:    fh.DUP,
		QoS:    fh.QoS,
		Retain: fh.Retain,
		Topic:  topic,
	}

	if fh.QoS == QoS1 {
		pid, next, err := readUint16(body, offset)
		if err != nil {
			return nil, err
		}
		p.PacketID = pid
		offset = next
	}

	p.Payload = append([]byte(nil), body[offset:]...)
	return p, nil
}

// Puback is a PUBACK packet (QoS1 acknowledgement).
type Puback struct {
	PacketID uint16
}

func (p *Puback) Encode(w io.Writer) error {
	fh := FixedHeader{Type: PUBACK, RemainingLength: 2}
	if err := fh.Encode(w); err != nil {
		return err
	}
	buf := writeUint16(nil, p.PacketID)
	_, err := w.Write(buf)
	return err
}

func DecodePuback(body []byte) (*Puback, error) {
	pid, _, err := readUint16(body, 0)
	if err != nil {
		return nil, err
	}
	return &Puback{PacketID: pid}, nil
}
