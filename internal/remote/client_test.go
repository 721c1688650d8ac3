package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, func() string { return "test-token" })
}

func TestClientLikePost(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts/p1/like", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"post_id": "p1", "likes": 12})
	}))

	likes, err := c.LikePost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 12, likes)
}

func TestClientErrorDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("detail is surfaced", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Post not found"})
		}))

		_, err := c.GetPost(ctx, "nope")
		require.Error(t, err)
		assert.Equal(t, "Post not found", Detail(err, "fallback"))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})

	t.Run("blank body falls back", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := c.GetPost(ctx, "nope")
		require.Error(t, err)
		assert.Equal(t, "fallback", Detail(err, "fallback"))
	})

	t.Run("transport errors fall back", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", time.Second, nil)
		_, err := c.GetPost(ctx, "p1")
		require.Error(t, err)
		assert.Equal(t, "fallback", Detail(err, "fallback"))
	})
}

func TestClientLogin(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login-with-username", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "amy", body["username"])

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "token_type": "bearer"})
	}))

	result, err := c.Login(ctx, "amy", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.AccessToken)
}

func TestClientListPostsQuery(t *testing.T) {
	ctx := context.Background()

	var gotUserID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.URL.Query().Get("user_id")
		w.Write([]byte("[]"))
	}))

	_, err := c.ListPosts(ctx, "u7")
	require.NoError(t, err)
	assert.Equal(t, "u7", gotUserID)

	_, err = c.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, gotUserID)
}

func TestClientAllConversations(t *testing.T) {
	ctx := context.Background()

	t.Run("stops on short page", func(t *testing.T) {
		var offsets []string
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/messages/conversations", r.URL.Path)
			assert.Equal(t, "20", r.URL.Query().Get("limit"))
			offset := r.URL.Query().Get("offset")
			offsets = append(offsets, offset)

			n := 20
			if offset != "0" {
				n = 3
			}
			page := make([]Conversation, n)
			for i := range page {
				page[i] = Conversation{ID: fmt.Sprintf("c-%s-%d", offset, i), UnreadCount: 1}
			}
			json.NewEncoder(w).Encode(page)
		}))

		all, err := c.AllConversations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 23)
		assert.Equal(t, []string{"0", "20"}, offsets)
	})

	t.Run("empty first page", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[]"))
		}))

		all, err := c.AllConversations(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
