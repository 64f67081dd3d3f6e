package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/resource-hub/pkg/resourcehub/vault/memory"
)

func TestPutAndOpen(t *testing.T) {
	vault := memory.New()
	ctx := context.Background()

	err := vault.Put(ctx, "owners/alice/blob1", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)

	rc, err := vault.Open(ctx, "owners/alice/blob1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ct, ok := vault.ContentType("owners/alice/blob1")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", ct)

	t.Run("missing content type defaults", func(t *testing.T) {
		require.NoError(t, vault.Put(ctx, "owners/alice/blob2", strings.NewReader("x"), ""))
		ct, ok := vault.ContentType("owners/alice/blob2")
		assert.True(t, ok)
		assert.Equal(t, "application/octet-stream", ct)
	})

	t.Run("open missing blob", func(t *testing.T) {
		_, err := vault.Open(ctx, "owners/alice/unknown")
		assert.Error(t, err)
	})
}

func TestSignedURL(t *testing.T) {
	vault := memory.NewWithTTL(time.Minute)
	ctx := context.Background()

	require.NoError(t, vault.Put(ctx, "owners/alice/blob", strings.NewReader("x"), ""))

	url, err := vault.SignedURL(ctx, "owners/alice/blob")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory://owners/alice/blob?expires="))

	t.Run("missing blob cannot be signed", func(t *testing.T) {
		_, err := vault.SignedURL(ctx, "owners/alice/unknown")
		assert.Error(t, err)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	vault := memory.New()
	ctx := context.Background()

	require.NoError(t, vault.Put(ctx, "owners/alice/blob", strings.NewReader("x"), ""))

	assert.NoError(t, vault.Delete(ctx, "owners/alice/blob"))
	_, err := vault.Open(ctx, "owners/alice/blob")
	assert.Error(t, err)

	// Deleting again, or deleting a key that never existed, succeeds.
	assert.NoError(t, vault.Delete(ctx, "owners/alice/blob"))
	assert.NoError(t, vault.Delete(ctx, "owners/alice/never-existed"))
}
