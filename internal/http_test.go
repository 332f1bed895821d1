package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderTransport(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	client := &http.Client{
		Transport: &HeaderTransport{
			Headers: http.Header{"User-Agent": []string{"chatmcp/1.0"}},
		},
	}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "chatmcp/1.0", got.Get("User-Agent"))
}

func TestHeaderTransportKeepsExplicitHeader(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	client := &http.Client{
		Transport: &HeaderTransport{
			Headers: http.Header{"X-Request-Source": []string{"default"}},
		},
	}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Source", "explicit")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "explicit", got.Get("X-Request-Source"))
}
