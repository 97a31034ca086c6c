package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		parent, child, want string
	}{
		{"", "", ""},
		{"", "id", "id"},
		{"address", "", "address"},
		{"address", "city", "address.city"},
		{"value", "[0]", "value[0]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinPath(tt.parent, tt.child), "JoinPath(%q, %q)", tt.parent, tt.child)
	}
}

func TestIndexPath(t *testing.T) {
	assert.Equal(t, "value[3]", IndexPath("value", 3))
	assert.Equal(t, "[0]", IndexPath("", 0))
	assert.Equal(t, "value[3].tags", JoinPath(IndexPath("value", 3), "tags"))
}

func TestNormalizeIndexes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"id", "id"},
		{"value[12].tags[0]", "value[*].tags[*]"},
		{"weird[x]", "weird[x]"},
		{"open[", "open["},
		{"nums[1", "nums[1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeIndexes(tt.in), "NormalizeIndexes(%q)", tt.in)
	}
}

func BenchmarkJoinPath(b *testing.B) {
	for b.Loop() {
		_ = JoinPath("value[12].address", "city")
	}
}
