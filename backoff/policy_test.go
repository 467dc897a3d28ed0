package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicyRejectsInvalidConfig(t *testing.T) {
	_, err := NewPolicy(Config{InitialInterval: 0, MaxInterval: time.Second, Multiplier: 2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewPolicyDefaultsZeroConfig(t *testing.T) {
	p, err := NewPolicy(Config{})
	require.NoError(t, err)

	d, ok := p.Next()
	assert.True(t, ok)
	assert.Greater(t, d, time.Duration(0))
}

func TestPolicyNextRespectsMaxRetries(t *testing.T) {
	p, err := NewPolicy(Config{
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		MaxRetries:      2,
	})
	require.NoError(t, err)

	_, ok := p.Next()
	assert.True(t, ok)
	_, ok = p.Next()
	assert.True(t, ok)
	_, ok = p.Next()
	assert.False(t, ok)
}

func TestPolicyResetZeroesAttempt(t *testing.T) {
	p, err := NewPolicy(Config{InitialInterval: time.Millisecond, MaxInterval: time.Second, Multiplier: 2})
	require.NoError(t, err)

	p.Next()
	p.Next()
	assert.Equal(t, 2, p.Attempt())

	p.Reset()
	assert.Equal(t, 0, p.Attempt())
}

func TestPolicyIntervalGrowsAndCapsAtMax(t *testing.T) {
	p, err := NewPolicy(Config{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     20 * time.Millisecond,
		Multiplier:      10,
		Jitter:          false,
	})
	require.NoError(t, err)

	first, _ := p.Next()
	second, _ := p.Next()
	assert.LessOrEqual(t, first, 20*time.Millisecond)
	assert.LessOrEqual(t, second, 20*time.Millisecond)
}
