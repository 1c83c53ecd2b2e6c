package token_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redeemkit/redeemkit/pkg/token"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("url safe", func(t *testing.T) {
		tok, err := token.Generate(16)
		require.NoError(t, err)

		decoded, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err)
		assert.Len(t, decoded, 16)
	})

	t.Run("default length on non-positive input", func(t *testing.T) {
		tok, err := token.Generate(0)
		require.NoError(t, err)

		decoded, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err)
		assert.Len(t, decoded, token.DefaultByteLength)
	})

	t.Run("distinct tokens", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 1000 {
			tok, err := token.Generate(16)
			require.NoError(t, err)
			_, dup := seen[tok]
			require.False(t, dup, "token collision: %s", tok)
			seen[tok] = struct{}{}
		}
	})
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil exists func", func(t *testing.T) {
		tok, err := token.GenerateUnique(ctx, nil, 16)
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
	})

	t.Run("retries past collisions", func(t *testing.T) {
		calls := 0
		exists := func(ctx context.Context, tok string) (bool, error) {
			calls++
			return calls < 3, nil
		}

		tok, err := token.GenerateUnique(ctx, exists, 16)
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last candidate when attempts exhaust", func(t *testing.T) {
		calls := 0
		exists := func(ctx context.Context, tok string) (bool, error) {
			calls++
			return true, nil
		}

		tok, err := token.GenerateUnique(ctx, exists, 16)
		require.NoError(t, err)
		assert.NotEmpty(t, tok)
		assert.Equal(t, token.DefaultMaxAttempts, calls)
	})

	t.Run("propagates exists error", func(t *testing.T) {
		boom := errors.New("store down")
		exists := func(ctx context.Context, tok string) (bool, error) {
			return false, boom
		}

		_, err := token.GenerateUnique(ctx, exists, 16)
		assert.ErrorIs(t, err, boom)
	})
}
