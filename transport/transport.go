// Package transport implements the byte-stream transport the client core
// needs to reach a broker: a TCP or TLS connection, dialed outbound, with a
// read-pump goroutine that reframes the incoming byte stream into discrete
// MQTT packets before handing each one to the owner.
package transport

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/axmq/mqttlite/codec/packet"
)

// Events is the set of callbacks a Transport drives. OnConnect fires on the
// goroutine that called Dial; the other three fire on the read-pump
// goroutine. The caller is responsible for handing them off to its own
// single-threaded event loop rather than acting on them directly.
type Events struct {
	OnConnect    func()
	OnRecv       func(b []byte)
	OnDisconnect func()
	OnError      func(err error)
}

// Config parameterizes dial behavior.
type Config struct {
	Host         string
	Port         int
	Secure       bool
	TLSConfig    *tls.Config
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	defaultDialTimeout  = 10 * time.Second
	defaultWriteTimeout = 5 * time.Second

	// maxPacketSize bounds the reframer's accumulation buffer, matching the
	// variable-byte-integer remaining-length ceiling plus a 5-byte header.
	maxPacketSize = 5 + packet.MaxVariableByteInteger
)

// TCPTransport is a dial-side net.Conn transport supporting plain TCP and
// TLS, with a background read-pump that reframes the stream into complete
// MQTT packets.
type TCPTransport struct {
	cfg    Config
	events Events

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// New builds a TCPTransport. Dial must be called before Send or Close do
// anything useful.
func New(cfg Config, events Events) *TCPTransport {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &TCPTransport{cfg: cfg, events: events}
}

// Dial opens the TCP connection (and TLS handshake, if Config.Secure), then
// starts the read-pump goroutine. OnConnect fires synchronously on success;
// on failure Dial returns the error without invoking any callback.
func (t *TCPTransport) Dial(ctx context.Context) error {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	dialer := &net.Dialer{Timeout: t.cfg.DialTimeout}
	ctx, cancel := context.WithTimeout(ctx, t.cfg.DialTimeout)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	if t.cfg.Secure {
		tlsConfig := t.cfg.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}
		} else if tlsConfig.ServerName == "" {
			clone := tlsConfig.Clone()
			clone.ServerName = t.cfg.Host
			tlsConfig = clone
		}

		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return err
		}
		conn = tlsConn
	}

	t.mu.Lock()
	t.conn = conn
	t.closed = false
	t.mu.Unlock()

	if t.events.OnConnect != nil {
		t.events.OnConnect()
	}

	go t.readPump(conn)
	return nil
}

// Send writes b to the connection, bounded by Config.WriteTimeout.
func (t *TCPTransport) Send(b []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrNotDialed
	}
	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	_, err := conn.Write(b)
	return err
}

// Close shuts down the connection. Safe to call more than once.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		t.closed = true
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

// readPump accumulates bytes read from conn, reframes them into complete
// MQTT packets per the fixed header's declared remaining length, and
// delivers each one to OnRecv. It returns (and fires OnDisconnect or
// OnError) when the connection ends.
func (t *TCPTransport) readPump(conn net.Conn) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			buf = t.drainPackets(buf)
		}
		if err != nil {
			t.mu.Lock()
			closedByUs := t.closed
			t.mu.Unlock()

			if closedByUs {
				return
			}
			if t.events.OnError != nil && err.Error() != "EOF" {
				t.events.OnError(err)
			}
			if t.events.OnDisconnect != nil {
				t.events.OnDisconnect()
			}
			return
		}
	}
}

// drainPackets extracts every complete packet currently buffered, delivers
// it to OnRecv, and returns the unconsumed remainder (the start of a
// partial packet, or empty).
func (t *TCPTransport) drainPackets(buf []byte) []byte {
	for {
		fh, headerLen, err := packet.ParseFixedHeaderFromBytes(buf)
		if err != nil {
			// Not enough bytes yet for even the fixed header; wait for more.
			if err == packet.ErrUnexpectedEOF {
				return buf
			}
			if t.events.OnError != nil {
				t.events.OnError(err)
			}
			return nil
		}

		total := headerLen + int(fh.RemainingLength)
		if total > maxPacketSize {
			if t.events.OnError != nil {
				t.events.OnError(packet.ErrOversizedPacket)
			}
			return nil
		}
		if len(buf) < total {
			return buf
		}

		if t.events.OnRecv != nil {
			t.events.OnRecv(append([]byte(nil), buf[:total]...))
		}
		buf = buf[total:]

		if len(buf) == 0 {
			return buf
		}
	}
}
