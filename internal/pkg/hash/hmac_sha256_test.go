package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256_HashNeverEqualsPlaintext(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	proof, err := h.Hash("alice@example.com:482913")
	require.NoError(t, err)

	assert.NotEqual(t, "alice@example.com:482913", string(proof))
	assert.Len(t, proof, 64) // hex-encoded sha256
}

func TestHMACSHA256_Verify(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	proof, err := h.Hash("alice@example.com:482913")
	require.NoError(t, err)

	assert.True(t, h.Verify(string(proof), "alice@example.com:482913"))
	assert.False(t, h.Verify(string(proof), "alice@example.com:482914"))
	assert.False(t, h.Verify(string(proof), ""))
}

func TestHMACSHA256_DifferentSecretsDisagree(t *testing.T) {
	a := NewHMACSHA256("secret-a")
	b := NewHMACSHA256("secret-b")

	proofA, err := a.Hash("bob@example.com:123456")
	require.NoError(t, err)

	assert.False(t, b.Verify(string(proofA), "bob@example.com:123456"))
}
