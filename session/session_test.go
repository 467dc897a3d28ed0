package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConnectionStartsDisconnected(t *testing.T) {
	c := New(Config{ClientID: "c1"})
	assert.Equal(t, Disconnected, c.State())
}

func TestNextPacketIDMonotonicAndSkipsZero(t *testing.T) {
	c := New(Config{ClientID: "c1"})

	first := c.NextPacketID()
	assert.Equal(t, uint16(1), first)
	assert.Equal(t, uint16(2), c.NextPacketID())
}

func TestNextPacketIDWrapsPast65535WithoutZero(t *testing.T) {
	c := New(Config{ClientID: "c1"})
	c.nextPacketID = 65535

	assert.Equal(t, uint16(65535), c.NextPacketID())
	assert.Equal(t, uint16(1), c.NextPacketID())
}

func TestResetForReconnectRestartsPacketIDsAndState(t *testing.T) {
	c := New(Config{ClientID: "c1"})
	c.NextPacketID()
	c.NextPacketID()
	c.SetState(Connected)

	c.ResetForReconnect()

	assert.Equal(t, Disconnected, c.State())
	assert.Equal(t, uint16(1), c.NextPacketID())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "unknown", State(99).String())
}
