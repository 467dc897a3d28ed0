package client

import (
	"crypto/tls"
	"time"

	"github.com/axmq/mqttlite/backoff"
	"github.com/axmq/mqttlite/pkg/logger"
	"github.com/axmq/mqttlite/resolver"
)

// Will is the optional last-will-and-testament published by the broker if
// this client disconnects ungracefully.
type Will struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// Options configures a Client. Construct with NewOptions to get sane
// defaults, then override fields before calling New.
type Options struct {
	HostName string
	HostPort int
	Secure   bool
	TLS      *tls.Config

	ClientID     string
	Username     string
	HasUsername  bool
	Password     []byte
	HasPassword  bool
	KeepAlive    uint16
	CleanSession bool
	LastWill     *Will

	DialTimeout  time.Duration
	WriteTimeout time.Duration

	Backoff backoff.Config
	Logger  logger.Logger

	// MissedPINGRESPLimit is the number of consecutive unanswered PINGREQs
	// that tear down the connection. 0 disables the check.
	MissedPINGRESPLimit int

	// DispatcherCapacity bounds the number of simultaneous subscriptions.
	// 0 falls back to topic.DefaultCapacity.
	DispatcherCapacity int

	Resolver resolver.Resolver

	OnConnect    func(c *Client, status ConnectStatus)
	OnSubscribe  func(c *Client, status SubscribeStatus, packetID uint16)
	OnMessage    func(c *Client, msg Message)
	OnDisconnect func(c *Client)
}

// NewOptions returns an Options with the defaults a caller would otherwise
// have to assemble by hand: a 60s keepalive, a default resolver, and a
// stderr-backed logger.
func NewOptions(hostName string, hostPort int, clientID string) *Options {
	return &Options{
		HostName:     hostName,
		HostPort:     hostPort,
		ClientID:     clientID,
		KeepAlive:    60,
		CleanSession: true,
		DialTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
		Backoff:      backoff.DefaultConfig(),
		Logger:       logger.Default(),
		Resolver:     resolver.NewNet(),
	}
}

// SetCredentials sets the username and password flags together, matching
// the CONNECT flags contract: both bits are set if and only if the
// corresponding field is present.
func (o *Options) SetCredentials(username string, password []byte) *Options {
	o.Username = username
	o.HasUsername = true
	o.Password = password
	o.HasPassword = true
	return o
}
