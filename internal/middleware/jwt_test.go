package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "shop-backend/internal/utils"
)

const testSecret = "middleware-test-secret"

// stubAdminLookup lets the admin middleware run without a database.
type stubAdminLookup struct {
    exists bool
    err    error
}

func (s stubAdminLookup) ExistsByID(context.Context, uint64) (bool, error) {
    return s.exists, s.err
}

func invoke(mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, echo.Context) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authorization != "" {
        req.Header.Set("Authorization", authorization)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    handler := mw(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    _ = handler(c)
    return rec, c
}

func TestUserJWTAcceptsUserToken(t *testing.T) {
    tok, err := utils.IssueUserToken(testSecret, 42, "alice", time.Hour)
    require.NoError(t, err)

    rec, c := invoke(UserJWT(testSecret), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(42), c.Get("user_id"))
    assert.Equal(t, "alice", c.Get("username"))
}

func TestUserJWTMissingHeader(t *testing.T) {
    rec, _ := invoke(UserJWT(testSecret), "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserJWTRejectsAdminToken(t *testing.T) {
    tok, err := utils.IssueAdminToken(testSecret, 7, "admin@example.com", time.Hour)
    require.NoError(t, err)

    rec, _ := invoke(UserJWT(testSecret), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserJWTExpiredToken(t *testing.T) {
    tok, err := utils.IssueUserToken(testSecret, 42, "alice", -time.Minute)
    require.NoError(t, err)

    rec, _ := invoke(UserJWT(testSecret), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTAcceptsAdminToken(t *testing.T) {
    tok, err := utils.IssueAdminToken(testSecret, 7, "admin@example.com", time.Hour)
    require.NoError(t, err)

    rec, c := invoke(AdminJWT(testSecret, stubAdminLookup{exists: true}), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(7), c.Get("admin_id"))
    assert.Equal(t, "admin@example.com", c.Get("admin_email"))
}

func TestAdminJWTRejectsUserToken(t *testing.T) {
    tok, err := utils.IssueUserToken(testSecret, 42, "alice", time.Hour)
    require.NoError(t, err)

    rec, _ := invoke(AdminJWT(testSecret, stubAdminLookup{exists: true}), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminJWTDeletedAdmin(t *testing.T) {
    tok, err := utils.IssueAdminToken(testSecret, 7, "admin@example.com", time.Hour)
    require.NoError(t, err)

    rec, _ := invoke(AdminJWT(testSecret, stubAdminLookup{exists: false}), "Bearer "+tok.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
