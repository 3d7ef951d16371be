package llm

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFromURL(t *testing.T) {
	payload := []byte("fake image bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer ts.Close()

	data, mimeType, err := NewImageDownloader().DownloadFromURL(context.Background(), ts.URL+"/img")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", mimeType)
}

func TestDownloadFromURLRejectsOversized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer ts.Close()

	d := NewImageDownloader().WithMaxSize(16)
	_, _, err := d.DownloadFromURL(context.Background(), ts.URL+"/big.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")
}

func TestDownloadFromURLNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, _, err := NewImageDownloader().DownloadFromURL(context.Background(), ts.URL+"/gone.jpg")
	assert.Error(t, err)
}

func TestDownloadFromURLCanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never read"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewImageDownloader().DownloadFromURL(ctx, ts.URL+"/img.jpg")
	assert.Error(t, err)
}

func TestDownloadFromURLMimeFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Misconfigured server: the body is an image but the header says
		// otherwise, so the type comes from the URL.
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("webp bytes"))
	}))
	defer ts.Close()

	_, mimeType, err := NewImageDownloader().DownloadFromURL(context.Background(), ts.URL+"/photo.webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", mimeType)
}

func TestGuessMimeType(t *testing.T) {
	assert.Equal(t, "image/png", guessMimeType("https://x.com/a.png"))
	assert.Equal(t, "image/gif", guessMimeType("https://x.com/a.gif"))
	assert.Equal(t, "image/jpeg", guessMimeType("https://x.com/a"))
}
