package packet

import "io"

// Pingreq is an outbound PINGREQ keepalive packet. It carries no variable
// header or payload.
type Pingreq struct{}

func (Pingreq) Encode(w io.Writer) error {
	fh := FixedHeader{Type: PINGREQ}
	return fh.Encode(w)
}

// Pingresp is an inbound PINGRESP packet, the server's keepalive reply.
type Pingresp struct{}

// Disconnect is an outbound DISCONNECT packet, sent to close the connection
// gracefully (without a will message).
type Disconnect struct{}

func (Disconnect) Encode(w io.Writer) error {
	fh := FixedHeader{Type: DISCONNECT}
	return fh.Encode(w)
}
