package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3Store(t *testing.T, handler http.Handler) *S3Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := S3Config{
		Endpoint:      strings.TrimPrefix(srv.URL, "http://"),
		AccessKey:     "test-access",
		SecretKey:     "test-secret",
		Region:        "us-east-1",
		Bucket:        "ad-images",
		PublicBaseURL: "https://cdn.example.com/ad-images",
	}
	client, err := NewS3Client(cfg)
	require.NoError(t, err)
	return NewS3Store(client, cfg)
}

func TestS3Store_EnsureBucketRetriesAfterFailure(t *testing.T) {
	var deny atomic.Bool
	var heads atomic.Int32
	deny.Store(true)

	store := newTestS3Store(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		heads.Add(1)
		if deny.Load() {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, store.EnsureBucket(ctx))
	})

	t.Run("server error", func(t *testing.T) {
		assert.Error(t, store.EnsureBucket(context.Background()))
	})

	t.Run("recovers once the bucket is reachable", func(t *testing.T) {
		deny.Store(false)
		require.NoError(t, store.EnsureBucket(context.Background()))

		seen := heads.Load()
		require.NoError(t, store.EnsureBucket(context.Background()))
		assert.Equal(t, seen, heads.Load(), "a successful check is not repeated")
	})
}

func TestS3Store_Delete(t *testing.T) {
	var removed atomic.Value
	store := newTestS3Store(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			removed.Store(r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, store.Delete(context.Background(), "https://cdn.example.com/ad-images/1_a.png"))
	assert.Equal(t, "/ad-images/1_a.png", removed.Load())

	t.Run("foreign url is ignored", func(t *testing.T) {
		removed.Store("")
		require.NoError(t, store.Delete(context.Background(), "https://other.example.com/1_b.png"))
		assert.Equal(t, "", removed.Load())
	})
}

func TestNewS3Client_RequiresEndpoint(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
}
