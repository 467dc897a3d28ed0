package client

import (
	"errors"

	"github.com/axmq/mqttlite/session"
)

var (
	// ErrNotConnected is returned by Publish/Subscribe/Unsubscribe when
	// called outside the Connected state.
	ErrNotConnected = session.ErrNotConnected
	// ErrAlreadyConnecting is returned by Connect when called while a
	// connection attempt is already in flight or the client is connected.
	ErrAlreadyConnecting = errors.New("connect already in progress")
	// ErrClosed is returned by any outbound call after Close has been
	// invoked.
	ErrClosed = errors.New("client is closed")
)
