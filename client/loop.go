package client

import (
	"context"
	"time"

	"github.com/axmq/mqttlite/codec/packet"
	"github.com/axmq/mqttlite/session"
	"github.com/axmq/mqttlite/timer"
	"github.com/axmq/mqttlite/topic"
)

// eventKind discriminates the union of things the event loop reacts to:
// transport bytes, transport lifecycle, timer ticks, and user API calls —
// exactly the four event sources named in the concurrency model. Producer
// goroutines (the transport's read-pump, the timer's ticker, reconnect
// backoff) only ever push events; all state mutation happens here.
type eventKind int

const (
	evConnectRequested eventKind = iota
	evResolved
	evTransportConnected
	evRecv
	evTransportDisconnected
	evTransportError
	evPingTick
	evReconnectTick
	evPublishRequested
	evSubscribeRequested
	evUnsubscribeRequested
	evDisconnectRequested
)

type publishRequest struct {
	topic   string
	payload []byte
	qos     packet.QoS
	retain  bool
	result  chan error
}

type subscribeRequest struct {
	filter  string
	qos     packet.QoS
	handler topic.Handler
	result  chan error
}

type unsubscribeRequest struct {
	filter string
	result chan error
}

type event struct {
	kind eventKind

	ctx  context.Context
	data []byte
	err  error
	ip   string

	publish     *publishRequest
	subscribe   *subscribeRequest
	unsubscribe *unsubscribeRequest
	result      chan error
}

func (c *Client) runLoop() {
	defer c.wg.Done()

	for {
		select {
		case ev := <-c.events:
			c.handle(ev)
		case <-c.closeCh:
			c.teardown()
			return
		}
	}
}

func (c *Client) teardown() {
	c.ticker.CancelAll()
	if c.transport != nil {
		c.transport.Close()
	}
}

func (c *Client) handle(ev event) {
	switch ev.kind {
	case evConnectRequested:
		c.onConnectRequested(ev.ctx)
	case evResolved:
		c.onResolved(ev.ip, ev.err)
	case evTransportConnected:
		c.onTransportConnected()
	case evRecv:
		c.onRecv(ev.data)
	case evTransportDisconnected:
		c.onTransportDisconnected()
	case evTransportError:
		c.log.Warn("transport error", "err", ev.err)
	case evPingTick:
		c.onPingTick()
	case evReconnectTick:
		c.onConnectRequested(context.Background())
	case evPublishRequested:
		ev.publish.result <- c.doPublish(ev.publish)
	case evSubscribeRequested:
		ev.subscribe.result <- c.doSubscribe(ev.subscribe)
	case evUnsubscribeRequested:
		ev.unsubscribe.result <- c.doUnsubscribe(ev.unsubscribe)
	case evDisconnectRequested:
		ev.result <- c.doDisconnect()
	}
}

func (c *Client) onConnectRequested(ctx context.Context) {
	c.conn.SetState(session.Resolving)
	c.log.Info("resolving", "host", c.opts.HostName)

	go func() {
		ip, err := c.resolver.Resolve(ctx, c.opts.HostName)
		if err != nil {
			c.pushEvent(event{kind: evResolved, err: err})
			return
		}
		c.pushEvent(event{kind: evResolved, ip: ip.String()})
	}()
}

func (c *Client) onResolved(ip string, err error) {
	if err != nil {
		c.log.Warn("resolution failed", "err", err)
		c.conn.SetState(session.Disconnected)
		c.scheduleReconnect()
		if c.opts.OnConnect != nil {
			c.opts.OnConnect(c, connectTransportFailure)
		}
		return
	}

	c.conn.SetState(session.TCPConnecting)
	c.log.Info("dialing", "ip", ip, "port", c.opts.HostPort)

	tr := c.newTransport(ip, c.transportEvents())
	c.transport = tr

	dialCtx, cancel := context.WithTimeout(context.Background(), dialTimeoutOrDefault(c.opts.DialTimeout))
	go func() {
		defer cancel()
		if err := tr.Dial(dialCtx); err != nil {
			c.pushEvent(event{kind: evTransportError, err: err})
			c.pushEvent(event{kind: evTransportDisconnected})
		}
	}()
}

func dialTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

func (c *Client) onTransportConnected() {
	c.conn.SetState(session.MQTTConnecting)
	c.log.Info("transport connected, sending CONNECT")

	connectPkt := &packet.Connect{
		CleanSession: c.conn.Config.CleanSession,
		KeepAlive:    c.conn.Config.KeepAlive,
		ClientID:     c.conn.Config.ClientID,
		HasUsername:  c.conn.Config.HasUsername,
		Username:     c.conn.Config.Username,
		HasPassword:  c.conn.Config.HasPassword,
		Password:     c.conn.Config.Password,
	}
	if c.conn.Config.LastWill != nil {
		will := c.conn.Config.LastWill
		connectPkt.WillFlag = true
		connectPkt.WillTopic = will.Topic
		connectPkt.WillPayload = will.Payload
		connectPkt.WillQoS = packet.QoS(will.QoS)
		connectPkt.WillRetain = will.Retain
	}

	if err := c.encodeAndSend(connectPkt); err != nil {
		c.log.Error("failed to send CONNECT", "err", err)
		c.failConnection()
	}
}

func (c *Client) onTransportDisconnected() {
	notify := c.conn.State() != session.Disconnected
	c.ticker.CancelAll()
	c.hasPingArmed = false
	c.missedPings = 0
	c.awaitingPong = false
	c.conn.ResetForReconnect()

	if notify && c.opts.OnDisconnect != nil {
		c.opts.OnDisconnect(c)
	}

	c.scheduleReconnect()
}

func (c *Client) failConnection() {
	if c.transport != nil {
		c.transport.Close()
	}
	c.onTransportDisconnected()
}

func (c *Client) scheduleReconnect() {
	delay, ok := c.backoff.Next()
	if !ok {
		c.log.Warn("reconnect attempts exhausted")
		return
	}
	c.log.Info("scheduling reconnect", "delay", delay.String())
	handle := make(chan timer.Handle, 1)
	handle <- c.ticker.Arm(delay, func() {
		// Fire once: the ticker is periodic, so cancel it on the first tick.
		c.ticker.Cancel(<-handle)
		c.pushEvent(event{kind: evReconnectTick})
	})
}

func (c *Client) onRecv(data []byte) {
	fh, n, err := packet.ParseFixedHeaderFromBytes(data)
	if err != nil {
		c.log.Warn("malformed packet header", "err", err)
		c.failConnection()
		return
	}

	body := data[n:]
	decoded, err := packet.Decode(fh, body)
	if err != nil {
		if err == packet.ErrUnsupportedPacketType {
			c.log.Debug("ignoring unsupported packet type", "type", fh.Type.String())
			return
		}
		c.log.Warn("malformed packet body", "type", fh.Type.String(), "err", err)
		c.failConnection()
		return
	}

	switch p := decoded.(type) {
	case *packet.Connack:
		c.onConnack(p)
	case *packet.Publish:
		c.onPublish(p)
	case *packet.Puback:
		// Fire-and-forget QoS 1: nothing to reconcile against (no
		// retransmission table), acknowledged for observability only.
		c.log.Debug("received PUBACK", "packet_id", p.PacketID)
	case *packet.Suback:
		c.onSuback(p)
	case *packet.Unsuback:
		c.log.Debug("received UNSUBACK", "packet_id", p.PacketID)
	case packet.Pingresp:
		c.awaitingPong = false
		c.missedPings = 0
	}
}

func (c *Client) onConnack(p *packet.Connack) {
	status := ConnectStatus(p.ReturnCode)

	if !status.Succeeded() {
		c.log.Warn("CONNACK refused", "return_code", p.ReturnCode)
		if c.opts.OnConnect != nil {
			c.opts.OnConnect(c, status)
		}
		c.conn.SetState(session.Closing)
		c.failConnection()
		return
	}

	c.conn.SetState(session.Connected)
	c.backoff.Reset()
	c.log.Info("connected", "session_present", p.SessionPresent)

	if c.opts.KeepAlive > 0 {
		c.armKeepalive()
	}

	if c.opts.OnConnect != nil {
		c.opts.OnConnect(c, status)
	}
}

func (c *Client) armKeepalive() {
	period := time.Duration(c.opts.KeepAlive) * time.Second
	c.pingHandle = c.ticker.Arm(period, func() {
		c.pushEvent(event{kind: evPingTick})
	})
	c.hasPingArmed = true
}

func (c *Client) onPingTick() {
	if c.conn.State() != session.Connected {
		return
	}

	if c.opts.MissedPINGRESPLimit > 0 && c.awaitingPong {
		c.missedPings++
		if c.missedPings >= c.opts.MissedPINGRESPLimit {
			c.log.Warn("missed PINGRESP limit reached, tearing down connection")
			c.failConnection()
			return
		}
	}

	if err := c.encodeAndSend(packet.Pingreq{}); err != nil {
		c.log.Error("failed to send PINGREQ", "err", err)
		c.failConnection()
		return
	}
	c.awaitingPong = true
}

func (c *Client) onPublish(p *packet.Publish) {
	msg := topic.Message{Topic: p.Topic, Payload: p.Payload}
	matched := c.dispatcher.Dispatch(msg)

	if matched == 0 && c.opts.OnMessage != nil {
		c.opts.OnMessage(c, Message{
			Topic:    p.Topic,
			Payload:  p.Payload,
			QoS:      p.QoS,
			Retain:   p.Retain,
			Dup:      p.DUP,
			PacketID: p.PacketID,
		})
	}

	if p.QoS == packet.QoS1 {
		ack := &packet.Puback{PacketID: p.PacketID}
		if err := c.encodeAndSend(ack); err != nil {
			c.log.Error("failed to send PUBACK", "err", err)
		}
	}
}

func (c *Client) onSuback(p *packet.Suback) {
	status := SubscribeFailure
	if len(p.ReturnCodes) > 0 {
		status = SubscribeStatus(p.ReturnCodes[0])
	}
	if c.opts.OnSubscribe != nil {
		c.opts.OnSubscribe(c, status, p.PacketID)
	}
}

func (c *Client) doPublish(req *publishRequest) error {
	if c.conn.State() != session.Connected {
		return ErrNotConnected
	}
	if err := topic.ValidateTopicName(req.topic); err != nil {
		return err
	}

	pkt := &packet.Publish{
		QoS:     req.qos,
		Retain:  req.retain,
		Topic:   req.topic,
		Payload: req.payload,
	}
	if req.qos == packet.QoS1 {
		pkt.PacketID = c.conn.NextPacketID()
	}

	return c.encodeAndSend(pkt)
}

func (c *Client) doSubscribe(req *subscribeRequest) error {
	if c.conn.State() != session.Connected {
		return ErrNotConnected
	}
	if err := topic.ValidateFilter(req.filter); err != nil {
		return err
	}

	if err := c.dispatcher.Register(req.filter, req.handler); err != nil {
		return err
	}

	pid := c.conn.NextPacketID()
	pkt := &packet.Subscribe{
		PacketID: pid,
		Filters:  []packet.TopicFilterQoS{{Filter: req.filter, QoS: req.qos}},
	}
	if err := c.encodeAndSend(pkt); err != nil {
		c.dispatcher.Unregister(req.filter)
		return err
	}
	return nil
}

func (c *Client) doUnsubscribe(req *unsubscribeRequest) error {
	if c.conn.State() != session.Connected {
		return ErrNotConnected
	}
	if err := topic.ValidateFilter(req.filter); err != nil {
		return err
	}

	c.dispatcher.Unregister(req.filter)

	pid := c.conn.NextPacketID()
	pkt := &packet.Unsubscribe{PacketID: pid, Filters: []string{req.filter}}
	return c.encodeAndSend(pkt)
}

func (c *Client) doDisconnect() error {
	if c.conn.State() != session.Connected {
		return ErrNotConnected
	}

	err := c.encodeAndSend(packet.Disconnect{})
	c.conn.SetState(session.Closing)
	c.ticker.CancelAll()
	if c.transport != nil {
		c.transport.Close()
	}
	return err
}
