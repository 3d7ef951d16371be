package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetViaProxiesFallsBackToSecondProxy(t *testing.T) {
	var firstHits, secondHits atomic.Int32

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firstHits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondHits.Add(1)
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer working.Close()

	client := NewClient(ClientOpts{
		Proxies: []string{broken.URL + "/raw?url=%s", working.URL + "/?%s"},
	})

	body, err := client.GetViaProxies(context.Background(), "https://example.com/product/1")
	require.NoError(t, err)
	assert.Contains(t, body, "ok")
	assert.Equal(t, int32(1), firstHits.Load())
	assert.Equal(t, int32(1), secondHits.Load())
}

func TestGetViaProxiesAllFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	client := NewClient(ClientOpts{
		Proxies: []string{broken.URL + "/a?url=%s", broken.URL + "/b?url=%s"},
	})

	_, err := client.GetViaProxies(context.Background(), "https://example.com/product/1")
	assert.Error(t, err)
}

func TestGetSendsBrowserUserAgent(t *testing.T) {
	var ua string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("hi"))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{})
	_, err := client.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, BrowserUserAgent, ua)
}
