package vaultkey_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/resource-hub/pkg/resourcehub/vaultkey"
)

func TestGenerateKeyShape(t *testing.T) {
	gen := vaultkey.New()

	key := gen.Generate("alice", "notes.pdf")
	assert.True(t, strings.HasPrefix(key, "owners/alice/"))
	assert.True(t, strings.HasSuffix(key, "_notes.pdf"))

	t.Run("without filename", func(t *testing.T) {
		key := gen.Generate("alice", "")
		assert.True(t, strings.HasPrefix(key, "owners/alice/"))
		assert.False(t, strings.Contains(key, "_"))
	})
}

func TestGenerateKeysAreUnique(t *testing.T) {
	gen := vaultkey.New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := gen.Generate("alice", "same.pdf")
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestGenerateSanitizesComponents(t *testing.T) {
	gen := vaultkey.New()

	t.Run("filename separators", func(t *testing.T) {
		key := gen.Generate("alice", "a/b\\c d.pdf")
		assert.True(t, strings.HasSuffix(key, "_a_b_c_d.pdf"))
	})

	t.Run("owner cannot escape its partition", func(t *testing.T) {
		key := gen.Generate("alice/../bob", "x.pdf")
		assert.True(t, strings.HasPrefix(key, "owners/alice_.._bob/"))
		assert.False(t, gen.Owns("bob", key))
	})
}

func TestOwns(t *testing.T) {
	gen := vaultkey.New()

	key := gen.Generate("alice", "doc.pdf")

	assert.True(t, gen.Owns("alice", key))
	assert.False(t, gen.Owns("bob", key))
	assert.False(t, gen.Owns("", key))

	t.Run("prefix owners do not collide", func(t *testing.T) {
		key := gen.Generate("ab", "doc.pdf")
		assert.True(t, gen.Owns("ab", key))
		// "a" is a prefix of "ab" but a different partition.
		assert.False(t, gen.Owns("a", key))
	})

	t.Run("foreign keys are rejected", func(t *testing.T) {
		assert.False(t, gen.Owns("alice", "somewhere/else/blob"))
		assert.False(t, gen.Owns("alice", ""))
	})
}

func TestCustomPrefix(t *testing.T) {
	gen := &vaultkey.RandomGenerator{Prefix: "vault"}

	key := gen.Generate("alice", "doc.pdf")
	assert.True(t, strings.HasPrefix(key, "vault/alice/"))
	assert.True(t, gen.Owns("alice", key))
}
