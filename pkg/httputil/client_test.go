package httputil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientBoundsConnections(t *testing.T) {
	c := NewHTTPClient(3*time.Second, 7)

	assert.Equal(t, 3*time.Second, c.Timeout)
	transport, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 7, transport.MaxConnsPerHost)
	assert.Equal(t, 7, transport.MaxIdleConnsPerHost)
	assert.Equal(t, 3*time.Second, transport.ResponseHeaderTimeout)
}

func TestNewHTTPClientDefaults(t *testing.T) {
	c := NewHTTPClient(0, 0)

	assert.Equal(t, defaultTimeout, c.Timeout)
	transport := c.Transport.(*http.Transport)
	assert.Equal(t, defaultMaxConns, transport.MaxConnsPerHost)
}
