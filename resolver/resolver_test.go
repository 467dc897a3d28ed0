package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShortCircuitsLiteralIP(t *testing.T) {
	r := NewNet()
	ip, err := r.Resolve(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip.String())
}

func TestResolveReturnsErrResolutionFailedForBadHost(t *testing.T) {
	r := NewNet()
	_, err := r.Resolve(context.Background(), "this-host-should-not-exist.invalid")
	assert.ErrorIs(t, err, ErrResolutionFailed)
}
