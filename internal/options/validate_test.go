package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactlyOne(t *testing.T) {
	names := []string{"file", "url", "content"}
	tests := []struct {
		name    string
		set     []bool
		wantErr string
	}{
		{"one", []bool{false, true, false}, ""},
		{"none", []bool{false, false, false}, "exactly one of file, url, or content must be provided (got 0)"},
		{"two", []bool{true, false, true}, "exactly one of file, url, or content must be provided (got 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExactlyOne(names, tt.set...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestListNames(t *testing.T) {
	assert.Equal(t, "the inputs", listNames(nil))
	assert.Equal(t, "file", listNames([]string{"file"}))
	assert.Equal(t, "file or url", listNames([]string{"file", "url"}))
	assert.Equal(t, "a, b, or c", listNames([]string{"a", "b", "c"}))
}
