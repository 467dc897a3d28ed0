// Package client implements the MQTT 3.1.1 client core: the connection
// state machine that drives CONNECT/CONNACK, keepalive PINGREQ/PINGRESP,
// SUBSCRIBE/PUBLISH with QoS 0/1, and DISCONNECT, built on the codec,
// topic dispatcher, transport, timer and backoff packages.
package client

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/axmq/mqttlite/backoff"
	"github.com/axmq/mqttlite/codec/packet"
	"github.com/axmq/mqttlite/pkg/logger"
	"github.com/axmq/mqttlite/resolver"
	"github.com/axmq/mqttlite/session"
	"github.com/axmq/mqttlite/timer"
	"github.com/axmq/mqttlite/topic"
	"github.com/axmq/mqttlite/transport"
)

// transporter is the subset of transport.TCPTransport the Client drives.
// Tests substitute a fake to avoid real sockets.
type transporter interface {
	Dial(ctx context.Context) error
	Send(b []byte) error
	Close() error
}

// Client owns the transport, the keepalive timer, and the connection
// state. All protocol logic runs on a single internal event-loop goroutine;
// see the package-level concurrency notes in loop.go.
type Client struct {
	opts *Options
	log  logger.Logger

	conn       *session.Connection
	dispatcher *topic.Dispatcher
	resolver   resolver.Resolver
	ticker     *timer.Ticker
	backoff    *backoff.Policy

	newTransport func(host string, events transport.Events) transporter
	transport    transporter

	pingHandle   timer.Handle
	hasPingArmed bool
	missedPings  int
	awaitingPong bool

	events  chan event
	closed  atomic.Bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New constructs a Client and starts its event loop. Connect must be called
// to actually dial a broker.
func New(opts *Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Resolver == nil {
		opts.Resolver = resolver.NewNet()
	}

	policy, err := backoff.NewPolicy(opts.Backoff)
	if err != nil {
		policy, _ = backoff.NewPolicy(backoff.DefaultConfig())
	}

	c := &Client{
		opts:       opts,
		log:        opts.Logger,
		conn:       session.New(connectionConfig(opts)),
		dispatcher: topic.NewDispatcher(opts.DispatcherCapacity),
		resolver:   opts.Resolver,
		ticker:     timer.New(),
		backoff:    policy,
		events:     make(chan event, 64),
		closeCh:    make(chan struct{}),
	}
	c.newTransport = func(host string, events transport.Events) transporter {
		return transport.New(transport.Config{
			Host:         host,
			Port:         opts.HostPort,
			Secure:       opts.Secure,
			TLSConfig:    opts.TLS,
			DialTimeout:  opts.DialTimeout,
			WriteTimeout: opts.WriteTimeout,
		}, events)
	}

	c.wg.Add(1)
	go c.runLoop()

	return c
}

func connectionConfig(opts *Options) session.Config {
	cfg := session.Config{
		ClientID:     opts.ClientID,
		Username:     opts.Username,
		HasUsername:  opts.HasUsername,
		Password:     opts.Password,
		HasPassword:  opts.HasPassword,
		KeepAlive:    opts.KeepAlive,
		CleanSession: opts.CleanSession,
		DialTimeout:  opts.DialTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	if opts.LastWill != nil {
		cfg.LastWill = &session.WillMessage{
			Topic:   opts.LastWill.Topic,
			Payload: opts.LastWill.Payload,
			QoS:     opts.LastWill.QoS,
			Retain:  opts.LastWill.Retain,
		}
	}
	return cfg
}

// State returns the connection's current lifecycle state.
func (c *Client) State() session.State {
	return c.conn.State()
}

// Connect begins the Resolving → TCPConnecting → MQTTConnecting sequence.
// It returns once the attempt has been accepted by the event loop; the
// outcome arrives asynchronously via Options.OnConnect.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	switch c.conn.State() {
	case session.Disconnected:
	case session.Closing:
		// Disconnect leaves the connection Closing; start over from a
		// fresh Connection.
		c.conn.ResetForReconnect()
	default:
		return ErrAlreadyConnecting
	}

	if !c.pushEvent(event{kind: evConnectRequested, ctx: ctx}) {
		return ErrClosed
	}
	return nil
}

// Publish encodes and sends a PUBLISH. QoS 2 is rejected outright; QoS 1
// consumes the next packet identifier. Returns ErrNotConnected unless the
// connection is Connected.
func (c *Client) Publish(topicName string, payload []byte, qos packet.QoS, retain bool) error {
	if qos == packet.QoS2 {
		return packet.ErrUnsupportedQoS
	}

	result := make(chan error, 1)
	if !c.pushEvent(event{
		kind: evPublishRequested,
		publish: &publishRequest{
			topic:   topicName,
			payload: payload,
			qos:     qos,
			retain:  retain,
			result:  result,
		},
	}) {
		return ErrClosed
	}
	return <-result
}

// Subscribe registers handler in the Dispatcher before sending SUBSCRIBE,
// so a PUBLISH arriving immediately after SUBACK is never dropped.
func (c *Client) Subscribe(filter string, qos packet.QoS, handler topic.Handler) error {
	result := make(chan error, 1)
	if !c.pushEvent(event{
		kind: evSubscribeRequested,
		subscribe: &subscribeRequest{
			filter:  filter,
			qos:     qos,
			handler: handler,
			result:  result,
		},
	}) {
		return ErrClosed
	}
	return <-result
}

// Unsubscribe removes the Dispatcher entry before sending UNSUBSCRIBE.
func (c *Client) Unsubscribe(filter string) error {
	result := make(chan error, 1)
	if !c.pushEvent(event{
		kind: evUnsubscribeRequested,
		unsubscribe: &unsubscribeRequest{
			filter: filter,
			result: result,
		},
	}) {
		return ErrClosed
	}
	return <-result
}

// Disconnect sends DISCONNECT and transitions to Closing; it does not
// trigger a reconnect.
func (c *Client) Disconnect() error {
	result := make(chan error, 1)
	if !c.pushEvent(event{kind: evDisconnectRequested, result: result}) {
		return ErrClosed
	}
	return <-result
}

// Close tears down the event loop and releases the transport and timer.
// Calls after the first are no-ops that return nil; after Close, outbound
// Client calls return ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.closeCh)
	c.wg.Wait()
	return nil
}

// pushEvent enqueues ev for the event loop and reports whether it was
// accepted. It returns false once Close has been called, so that blocking
// callers (Publish, Subscribe, ...) never wait on a result that will never
// arrive.
func (c *Client) pushEvent(ev event) bool {
	select {
	case <-c.closeCh:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.closeCh:
		return false
	}
}

func (c *Client) transportEvents() transport.Events {
	return transport.Events{
		OnConnect:    func() { c.pushEvent(event{kind: evTransportConnected}) },
		OnRecv:       func(b []byte) { c.pushEvent(event{kind: evRecv, data: b}) },
		OnDisconnect: func() { c.pushEvent(event{kind: evTransportDisconnected}) },
		OnError:      func(err error) { c.pushEvent(event{kind: evTransportError, err: err}) },
	}
}

// encoder is implemented by every outbound packet type in codec/packet.
type encoder interface {
	Encode(w io.Writer) error
}

// encodeAndSend serializes p via its Encode method and writes the result to
// the transport. It is only ever called from the event-loop goroutine.
func (c *Client) encodeAndSend(p encoder) error {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return err
	}
	if c.transport == nil {
		return ErrNotConnected
	}
	return c.transport.Send(buf.Bytes())
}
