package mcpserver

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlockedIP(t *testing.T) {
	tests := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},   // loopback
		{"10.0.0.1", true},    // private
		{"192.168.1.1", true}, // private
		{"169.254.1.1", true}, // link-local
		{"::1", true},         // IPv6 loopback
		{"0.0.0.0", true},     // unspecified
		{"fd00::1", true},     // IPv6 ULA
		{"8.8.8.8", false},
		{"1.1.1.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip, "failed to parse IP: %s", tt.ip)
			assert.Equal(t, tt.blocked, isBlockedIP(ip))
		})
	}
}

func TestResolvePublicRejectsLoopback(t *testing.T) {
	_, err := resolvePublic(context.Background(), "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")
}

func TestSafeClientRedirectLimit(t *testing.T) {
	client := newSafeHTTPClient()
	require.NotNil(t, client.CheckRedirect)
	assert.NotZero(t, client.Timeout)

	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "127.0.0.1"}}
	req = req.WithContext(context.Background())
	via := make([]*http.Request, maxRedirects)
	err := client.CheckRedirect(req, via)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after")

	err = client.CheckRedirect(req, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")
}
