package pkg

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:     "cloudflare header wins",
			headers:  map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			expected: "203.0.113.7",
		},
		{
			name:     "forwarded for chain, first valid entry",
			headers:  map[string]string{"X-Forwarded-For": "not-an-ip, 198.51.100.23, 10.0.0.1"},
			expected: "198.51.100.23",
		},
		{
			name:     "real ip header",
			headers:  map[string]string{"X-Real-Ip": "192.0.2.44"},
			expected: "192.0.2.44",
		},
		{
			name:     "rfc 7239 forwarded",
			headers:  map[string]string{"Forwarded": `for=192.0.2.60;proto=http`},
			expected: "192.0.2.60",
		},
		{
			name:     "ipv6 value",
			headers:  map[string]string{"X-Forwarded-For": "2001:db8::1"},
			expected: "2001:db8::1",
		},
		{
			name:       "no headers, remote addr used",
			remoteAddr: "192.0.2.9:51234",
			expected:   "192.0.2.9",
		},
		{
			name:       "nothing parsable",
			headers:    map[string]string{"X-Forwarded-For": "garbage"},
			remoteAddr: "garbage",
			expected:   UnknownClient,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/admin/auth", nil)
			require.NoError(t, err)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tc.remoteAddr

			assert.Equal(t, tc.expected, ReadClientIP(req))
		})
	}
}

func TestReadUserAgent(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	assert.Equal(t, UnknownClient, ReadUserAgent(req))

	req.Header.Set("User-Agent", "test-agent/1.0")
	assert.Equal(t, "test-agent/1.0", ReadUserAgent(req))
}
