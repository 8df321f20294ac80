package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
    hash, err := HashPassword("s3cret-pass", 4) // low cost keeps the test fast
    require.NoError(t, err)
    require.NotEqual(t, "s3cret-pass", hash)

    assert.True(t, VerifyPassword(hash, "s3cret-pass"))
    assert.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestVerifyPasswordBadHash(t *testing.T) {
    assert.False(t, VerifyPassword("not-a-bcrypt-hash", "whatever"))
}
