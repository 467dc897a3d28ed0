// Package session holds the per-client connection state: configuration,
// current lifecycle state, and the outbound packet identifier generator.
package session

import (
	"sync"
	"time"
)

// State is a connection's position in the MQTT client lifecycle.
type State byte

const (
	Disconnected State = iota
	Resolving
	TCPConnecting
	MQTTConnecting
	Connected
	Closing
)

// String names the state the way log lines and tests reference it.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Resolving:
		return "resolving"
	case TCPConnecting:
		return "tcp_connecting"
	case MQTTConnecting:
		return "mqtt_connecting"
	case Connected:
		return "connected"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// WillMessage is the optional last-will-and-testament published by the
// broker on ungraceful disconnect.
type WillMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// Config is the immutable-after-Connect configuration for one Connection.
type Config struct {
	ClientID     string
	Username     string
	HasUsername  bool
	Password     []byte
	HasPassword  bool
	KeepAlive    uint16
	CleanSession bool
	LastWill     *WillMessage

	// DialTimeout bounds how long the TCP/TLS dial may block. WriteTimeout
	// bounds a single outbound write. Both default to a conservative fixed
	// duration when zero.
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Connection is the mutable per-client state machine position plus the
// packet identifier generator. It is reset on every reconnect.
type Connection struct {
	mu sync.Mutex

	Config Config
	state  State

	nextPacketID uint16
}

// New creates a Connection in the Disconnected state with its packet ID
// generator ready to start at 1 once CONNECT succeeds.
func New(cfg Config) *Connection {
	return &Connection{
		Config:       cfg,
		state:        Disconnected,
		nextPacketID: 1,
	}
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetState transitions to s.
func (c *Connection) SetState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// ResetForReconnect returns the packet ID generator to 1 and clears the
// state back to Disconnected, as happens on every fresh CONNECT (this
// client does not implement session persistence across reconnects; every
// CONNECT carries CleanSession semantics for packet numbering).
func (c *Connection) ResetForReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Disconnected
	c.nextPacketID = 1
}

// NextPacketID returns the next packet identifier and advances the
// generator, wrapping from 65535 back to 1 — 0 is never a valid packet ID
// per MQTT 3.1.1 section 2.3.1.
func (c *Connection) NextPacketID() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextPacketID
	c.nextPacketID++
	if c.nextPacketID == 0 {
		c.nextPacketID = 1
	}
	return id
}
