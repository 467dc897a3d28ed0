package packet

import "errors"

var (
	ErrInvalidType           = errors.New("invalid packet type")
	ErrInvalidFlags          = errors.New("invalid flags for packet type")
	ErrMalformedRemainingLen = errors.New("malformed remaining length")
	ErrInvalidQoS            = errors.New("invalid QoS level")
	ErrUnsupportedQoS        = errors.New("QoS 2 is not supported")
	ErrInvalidReservedType   = errors.New("reserved packet type (0) not allowed")
	ErrUnsupportedPacketType = errors.New("unsupported packet type")
	ErrUnexpectedEOF         = errors.New("unexpected end of input")
	ErrTruncatedPacket       = errors.New("truncated packet")
	ErrOversizedPacket       = errors.New("encoded packet exceeds maximum size")
	ErrInvalidUTF8           = errors.New("invalid UTF-8 encoded string")
	ErrNullCharacter         = errors.New("null character not allowed in string")
	ErrStringTooLarge        = errors.New("string exceeds 65535 bytes")
	ErrInvalidProtocolName   = errors.New("invalid protocol name")
	ErrUnsupportedProtocol   = errors.New("unsupported protocol level")
)
