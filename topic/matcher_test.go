package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicMatcherMatch(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		topic  string
		want   bool
	}{
		{"literal filter matches identical topic", "a/b/c", "a/b/c", true},
		{"hash wildcard covers first two levels", "a/b/#", "a/b/c/d", true},
		{"hash wildcard covers just its own level", "a/b/#", "a/b", true},
		{"hash wildcard does not cross a sibling level", "a/b/#", "a/c", false},
		{"level equality is exact, not a prefix", "a/b", "a/bb", false},
		{"plus wildcard fills exactly one level", "a/+/c", "a/b/c", true},
		{"plus wildcard cannot absorb two levels", "a/+/c", "a/b/x/c", false},
		{"bare hash matches everything rooted at top level", "#", "a/b/c", true},
		{"bare plus matches a single top level", "+", "a", true},
		{"bare plus rejects a deeper topic", "+", "a/b", false},
		{"leading plus still requires the rest to line up", "+/b/c", "a/b/c", true},
		{"trailing plus matches the last level only", "a/b/+", "a/b/c", true},
		{"dollar-prefixed topic excluded from hash wildcard", "#", "$SYS/broker/load", false},
		{"dollar-prefixed topic excluded from plus wildcard", "+/broker/load", "$SYS/broker/load", false},
		{"dollar-prefixed topic matches its own literal filter", "$SYS/broker/load", "$SYS/broker/load", true},
		{"filter with more levels than the topic never matches", "a/b/c/d", "a/b", false},
		{"topic with more levels than a literal filter never matches", "a/b", "a/b/c", false},
		{"empty topic never matches a non-empty filter", "a/b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTopicMatcher()
			assert.Equal(t, tt.want, m.Match(tt.filter, tt.topic))
		})
	}
}

func TestCutLevelSplitsOnFirstSlash(t *testing.T) {
	head, tail, more := cutLevel("a/b/c")
	assert.Equal(t, "a", head)
	assert.Equal(t, "b/c", tail)
	assert.True(t, more)

	head, tail, more = cutLevel("a")
	assert.Equal(t, "a", head)
	assert.Equal(t, "", tail)
	assert.False(t, more)
}

func BenchmarkTopicMatcherMatch(b *testing.B) {
	m := NewTopicMatcher()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Match("a/+/c/#", "a/b/c/d/e")
	}
}
