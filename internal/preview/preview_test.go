package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a", FirstURL("look at https://example.com/a and http://b.example"))
	assert.Equal(t, "http://b.example", FirstURL("plain http://b.example"))
	assert.Empty(t, FirstURL("no links here"))
}

func TestFetcherScrape(t *testing.T) {
	ctx := context.Background()

	t.Run("og tags win", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head>
				<title>Fallback title</title>
				<meta property="og:title" content="OG Title">
				<meta property="og:description" content="OG Description">
				<meta property="og:image" content="https://img.example/x.png">
			</head><body></body></html>`))
		}))
		defer srv.Close()

		card, err := NewFetcher(5*time.Second).Fetch(ctx, srv.URL)
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.Equal(t, "OG Title", card.Title)
		assert.Equal(t, "OG Description", card.Description)
		assert.Equal(t, "https://img.example/x.png", card.ImageURL)
	})

	t.Run("title fallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Just a title</title></head><body></body></html>`))
		}))
		defer srv.Close()

		card, err := NewFetcher(5*time.Second).Fetch(ctx, srv.URL)
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.Equal(t, "Just a title", card.Title)
	})

	t.Run("non-html yields no card", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		card, err := NewFetcher(5*time.Second).Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Nil(t, card)
	})

	t.Run("results are cached per url", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>T</title></head></html>`))
		}))
		defer srv.Close()

		f := NewFetcher(5 * time.Second)
		_, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		_, err = f.Fetch(ctx, srv.URL)
		require.NoError(t, err)

		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("error status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewFetcher(5*time.Second).Fetch(ctx, srv.URL)
		assert.Error(t, err)
	})
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hello world again", StripHTML("<p>Hello <b>world</b></p><p>again</p>"))
	assert.Equal(t, "a & b", StripHTML("a &amp; b"))
	assert.Equal(t, "plain", StripHTML("plain"))
}
