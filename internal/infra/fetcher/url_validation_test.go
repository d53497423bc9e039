package fetcher

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"fc00::1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"172.32.0.1", false},
		{"2001:4860:4860::8888", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.private, isPrivateIP(ip))
		})
	}
}

func TestValidateURL(t *testing.T) {
	ctx := context.Background()

	u, err := validateURL(ctx, net.DefaultResolver, "https://93.184.216.34/news", true)
	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", u.Hostname())

	_, err = validateURL(ctx, net.DefaultResolver, "http://169.254.169.254/latest/meta-data", true)
	assert.ErrorIs(t, err, ErrPrivateIP)

	_, err = validateURL(ctx, net.DefaultResolver, "http://127.0.0.1:8080/", false)
	assert.NoError(t, err, "private addresses are allowed when the check is off")

	_, err = validateURL(ctx, net.DefaultResolver, "file:///etc/passwd", false)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestDialControl(t *testing.T) {
	assert.ErrorIs(t, dialControl("tcp", "127.0.0.1:80", nil), ErrPrivateIP)
	assert.ErrorIs(t, dialControl("tcp", "[::1]:443", nil), ErrPrivateIP)
	assert.NoError(t, dialControl("tcp", "8.8.8.8:443", nil))
	assert.ErrorIs(t, dialControl("tcp", "bad-address", nil), ErrInvalidURL)
}
