package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"  // hex encoding functions
    "errors"        // sentinel error values
    "time"          // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Verification failures are reported through sentinel errors so handlers
// and middleware can map them to the right HTTP status without string
// matching.
var (
    ErrMalformedToken   = errors.New("malformed token")
    ErrExpiredToken     = errors.New("token expired")
    ErrInvalidSignature = errors.New("invalid token signature")
    ErrNotAdmin         = errors.New("not an admin token")
    ErrAdminToken       = errors.New("admin token not valid here")
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are carried in the Authorization header when calling
// protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// UserClaims are the decoded claims of an end-user access token.
type UserClaims struct {
    UserID   uint64
    Username string
}

// AdminClaims are the decoded claims of an admin access token.
type AdminClaims struct {
    AdminID uint64
    Email   string
}

// RefreshToken represents a long-lived token used to obtain new access
// tokens.  Raw is the value returned to the client; only a SHA-256 hash
// of it is stored server-side.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// IssueUserToken builds and signs an HS256 JWT for an end user.  The token
// carries the user id as subject, the username as a display claim, and
// standard iat/exp timestamps.  User tokens never carry is_admin; the
// admin verification path rejects them.
func IssueUserToken(secret string, userID uint64, username string, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":      userID,
        "username": username,
        "iat":      now.Unix(),
        "exp":      exp.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// IssueAdminToken builds and signs an HS256 JWT for an admin.  Admin
// tokens carry the admin's email and an explicit is_admin flag; the user
// verification path rejects any token carrying that flag.
func IssueAdminToken(secret string, adminID uint64, email string, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":      adminID,
        "email":    email,
        "is_admin": true,
        "iat":      now.Unix(),
        "exp":      exp.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyUserToken parses and validates an end-user access token.  It
// returns ErrExpiredToken / ErrInvalidSignature / ErrMalformedToken on the
// corresponding failure, and ErrAdminToken when an admin token is
// presented on the user path.  Claims are returned as decoded; existence
// of the user is not re-checked here.
func VerifyUserToken(secret, raw string) (UserClaims, error) {
    claims, err := parseHS256(secret, raw)
    if err != nil {
        return UserClaims{}, err
    }
    if isAdmin, _ := claims["is_admin"].(bool); isAdmin {
        return UserClaims{}, ErrAdminToken
    }
    id, ok := subjectID(claims)
    if !ok {
        return UserClaims{}, ErrMalformedToken
    }
    username, _ := claims["username"].(string)
    return UserClaims{UserID: id, Username: username}, nil
}

// VerifyAdminToken parses and validates an admin access token.  Beyond the
// generic checks it requires the is_admin flag; the admin middleware
// additionally re-resolves the admin row against the store.
func VerifyAdminToken(secret, raw string) (AdminClaims, error) {
    claims, err := parseHS256(secret, raw)
    if err != nil {
        return AdminClaims{}, err
    }
    if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
        return AdminClaims{}, ErrNotAdmin
    }
    id, ok := subjectID(claims)
    if !ok {
        return AdminClaims{}, ErrMalformedToken
    }
    email, _ := claims["email"].(string)
    return AdminClaims{AdminID: id, Email: email}, nil
}

// parseHS256 parses a token signed with the shared secret and maps the
// jwt library's failure modes onto the package's sentinel errors.
func parseHS256(secret, raw string) (jwt.MapClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSignature
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return nil, ErrExpiredToken
        case errors.Is(err, jwt.ErrTokenSignatureInvalid):
            return nil, ErrInvalidSignature
        case errors.Is(err, jwt.ErrTokenUnverifiable):
            // Keyfunc rejections (e.g. a non-HMAC alg header) come back
            // wrapped as unverifiable; report them as signature failures.
            return nil, ErrInvalidSignature
        default:
            return nil, ErrMalformedToken
        }
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok || !tok.Valid {
        return nil, ErrMalformedToken
    }
    return claims, nil
}

// subjectID extracts the numeric subject claim.  JSON numbers decode as
// float64; issuing code may also store the id as uint64 directly.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
    switch v := claims["sub"].(type) {
    case float64:
        return uint64(v), true
    case uint64:
        return v, true
    case int64:
        return uint64(v), true
    }
    return 0, false
}

// NewRefreshToken returns a cryptographically secure random token (raw)
// and its expiration time.  Refresh tokens outlive access tokens and are
// exchanged for new pairs at /api/token/refresh/.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a
// hex string.  Only the hash is persisted, so stolen database rows cannot
// be replayed as refresh tokens.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  Also used by the file store to
// name uploaded images.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// RandomHex exposes randomHex for collaborators outside the package.
func RandomHex(n int) (string, error) { return randomHex(n) }
