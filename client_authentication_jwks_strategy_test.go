package clientauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/oidauth/clientauth"
	"github.com/oidauth/clientauth/internal/gen"
)

func TestDefaultJWKSFetcherStrategy(t *testing.T) {
	key := gen.MustRSAKey()

	set := &jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{
			{
				KeyID:     "kid-foo",
				Use:       "sig",
				Algorithm: "RS256",
				Key:       &key.PublicKey,
			},
		},
	}

	var hits int

	var h http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		hits++

		require.NoError(t, json.NewEncoder(w).Encode(set))
	}

	ts := httptest.NewServer(h)
	defer ts.Close()

	strategy := NewDefaultJWKSFetcherStrategy()

	ctx := context.Background()

	resolved, err := strategy.Resolve(ctx, ts.URL, false)
	require.NoError(t, err)
	require.Len(t, resolved.Keys, 1)
	assert.Equal(t, "kid-foo", resolved.Keys[0].KeyID)
	assert.Equal(t, 1, hits)

	strategy.(*DefaultJWKSFetcherStrategy).WaitForCache()

	_, err = strategy.Resolve(ctx, ts.URL, false)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "second resolve should be served from the cache")

	_, err = strategy.Resolve(ctx, ts.URL, true)
	require.NoError(t, err)
	assert.Equal(t, 2, hits, "forced refresh should hit the remote")
}

func TestDefaultJWKSFetcherStrategyErrors(t *testing.T) {
	t.Run("ShouldFailOnNonSuccessStatus", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		strategy := NewDefaultJWKSFetcherStrategy()

		_, err := strategy.Resolve(context.Background(), ts.URL, false)
		assert.ErrorIs(t, err, ErrServerError)
	})

	t.Run("ShouldFailOnInvalidJSON", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not-json"))
		}))
		defer ts.Close()

		strategy := NewDefaultJWKSFetcherStrategy()

		_, err := strategy.Resolve(context.Background(), ts.URL, false)
		assert.ErrorIs(t, err, ErrServerError)
	})
}
