package ratelimiter_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeemkit/redeemkit/pkg/ratelimiter"
)

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("admits within budget", func(t *testing.T) {
		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Requests: 3,
			Window:   time.Minute,
		})
		require.NoError(t, err)

		for i := range 3 {
			res, err := limiter.Allow(ctx, "client-a")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d should be admitted", i+1)
		}

		res, err := limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Zero(t, res.Remaining)
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Requests: 1,
			Window:   time.Minute,
		})
		require.NoError(t, err)

		res, err := limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		require.True(t, res.Allowed)

		res, err = limiter.Allow(ctx, "client-b")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("reset clears the budget", func(t *testing.T) {
		store := ratelimiter.NewMemoryStore()
		limiter, err := ratelimiter.New(store, ratelimiter.Config{Requests: 1, Window: time.Minute})
		require.NoError(t, err)

		_, err = limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		res, err := limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		require.False(t, res.Allowed)

		require.NoError(t, store.Reset(ctx, "client-a"))

		res, err = limiter.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Requests: 2,
		Window:   time.Minute,
	})
	require.NoError(t, err)

	var handled int
	handler := ratelimiter.Middleware(limiter, nil, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/qr/verify", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 2, handled)
}
