package client

import "github.com/axmq/mqttlite/codec/packet"

// Message is a decoded inbound PUBLISH handed to the default OnMessage
// callback. Subscription handlers receive a topic.Message instead.
type Message struct {
	Topic    string
	Payload  []byte
	QoS      packet.QoS
	Retain   bool
	Dup      bool
	PacketID uint16
}

// ConnectStatus mirrors the CONNACK return code, promoted to the user's
// OnConnect callback.
type ConnectStatus byte

const (
	ConnectSuccess                   ConnectStatus = ConnectStatus(packet.ConnectAccepted)
	ConnectBadProtocolVersion        ConnectStatus = ConnectStatus(packet.ConnectRefusedUnacceptableProtocol)
	ConnectIdentifierRejected        ConnectStatus = ConnectStatus(packet.ConnectRefusedIdentifierRejected)
	ConnectServerUnavailable         ConnectStatus = ConnectStatus(packet.ConnectRefusedServerUnavailable)
	ConnectBadUsernameOrPassword     ConnectStatus = ConnectStatus(packet.ConnectRefusedBadUsernamePassword)
	ConnectNotAuthorized             ConnectStatus = ConnectStatus(packet.ConnectRefusedNotAuthorized)
	connectTransportFailure          ConnectStatus = 0xFF // local: DNS resolution failure, never on the wire
)

// Succeeded reports whether the status represents a successful CONNECT.
func (s ConnectStatus) Succeeded() bool {
	return s == ConnectSuccess
}

// SubscribeStatus is the granted QoS, or failure, from a SUBACK return code.
type SubscribeStatus byte

const (
	SubscribeGrantedQoS0 SubscribeStatus = SubscribeStatus(packet.SubackMaxQoS0)
	SubscribeGrantedQoS1 SubscribeStatus = SubscribeStatus(packet.SubackMaxQoS1)
	SubscribeGrantedQoS2 SubscribeStatus = SubscribeStatus(packet.SubackMaxQoS2)
	SubscribeFailure     SubscribeStatus = SubscribeStatus(packet.SubackFailure)
)

// Succeeded reports whether the broker granted the subscription.
func (s SubscribeStatus) Succeeded() bool {
	return s != SubscribeFailure
}
