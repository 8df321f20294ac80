package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestUserTokenRoundTrip(t *testing.T) {
    tok, err := IssueUserToken(testSecret, 42, "alice", time.Hour)
    require.NoError(t, err)
    require.NotEmpty(t, tok.Token)

    claims, err := VerifyUserToken(testSecret, tok.Token)
    require.NoError(t, err)
    assert.Equal(t, uint64(42), claims.UserID)
    assert.Equal(t, "alice", claims.Username)
}

func TestAdminTokenRoundTrip(t *testing.T) {
    tok, err := IssueAdminToken(testSecret, 7, "admin@example.com", time.Hour)
    require.NoError(t, err)

    claims, err := VerifyAdminToken(testSecret, tok.Token)
    require.NoError(t, err)
    assert.Equal(t, uint64(7), claims.AdminID)
    assert.Equal(t, "admin@example.com", claims.Email)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
    userTok, err := IssueUserToken(testSecret, 42, "alice", time.Hour)
    require.NoError(t, err)
    adminTok, err := IssueAdminToken(testSecret, 7, "admin@example.com", time.Hour)
    require.NoError(t, err)

    _, err = VerifyAdminToken(testSecret, userTok.Token)
    assert.ErrorIs(t, err, ErrNotAdmin)

    _, err = VerifyUserToken(testSecret, adminTok.Token)
    assert.ErrorIs(t, err, ErrAdminToken)
}

func TestVerifyExpiredToken(t *testing.T) {
    tok, err := IssueUserToken(testSecret, 42, "alice", -time.Minute)
    require.NoError(t, err)

    _, err = VerifyUserToken(testSecret, tok.Token)
    assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
    tok, err := IssueUserToken(testSecret, 42, "alice", time.Hour)
    require.NoError(t, err)

    _, err = VerifyUserToken("some-other-secret", tok.Token)
    assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsNonHMACAlgorithm(t *testing.T) {
    raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
        "sub":      42,
        "username": "alice",
        "iat":      time.Now().Unix(),
        "exp":      time.Now().Add(time.Hour).Unix(),
    }).SignedString(jwt.UnsafeAllowNoneSignatureType)
    require.NoError(t, err)

    _, err = VerifyUserToken(testSecret, raw)
    assert.ErrorIs(t, err, ErrInvalidSignature)

    _, err = VerifyAdminToken(testSecret, raw)
    assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
    for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
        _, err := VerifyUserToken(testSecret, raw)
        assert.ErrorIs(t, err, ErrMalformedToken, "raw=%q", raw)
    }
}

func TestNewRefreshToken(t *testing.T) {
    rt, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96)
    assert.True(t, rt.Exp.After(time.Now().UTC().Add(6*24*time.Hour)))

    other, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRawIsStable(t *testing.T) {
    a := HashRefreshRaw("token-value")
    b := HashRefreshRaw("token-value")
    assert.Equal(t, a, b)
    assert.Len(t, a, 64)
    assert.NotEqual(t, a, HashRefreshRaw("different"))
}
