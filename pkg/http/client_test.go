package http

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_AppliesConfig(t *testing.T) {
	cfg := ProcessorClientConfig()
	client := NewHTTPClient(cfg, 60*time.Second)

	assert.Equal(t, 60*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, cfg.MaxIdleConnsPerHost, transport.MaxIdleConnsPerHost)
	assert.Equal(t, cfg.ResponseHeaderTimeout, transport.ResponseHeaderTimeout)
	assert.True(t, transport.DisableCompression)
	assert.Equal(t, uint16(tls.VersionTLS12), transport.TLSClientConfig.MinVersion)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestDefaultClientConfig(t *testing.T) {
	cfg := DefaultClientConfig()
	assert.False(t, cfg.DisableCompression)
	assert.Equal(t, 30*time.Second, cfg.ResponseHeaderTimeout)
}
