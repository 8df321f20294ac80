package handler

import (
    "net/http"
    "net/http/httptest"
    "regexp"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "shop-backend/internal/config"
    "shop-backend/internal/repository"
    "shop-backend/internal/utils"
)

func TestRefreshFailsWhenRevokeFails(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewAuthHandler(config.Config{JWTSecret: "test-secret", TokenTTLHours: 1, RefreshTTLDays: 7},
        repository.NewUserRepo(db), repository.NewTokenRepo(db))

    raw := "raw-refresh-token-value"
    hash := utils.HashRefreshRaw(raw)

    mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
        WithArgs(hash).
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
            AddRow(7, time.Now().UTC().Add(time.Hour), nil))
    // If the old token cannot be revoked, no new pair may be issued.
    mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW()")).
        WithArgs(hash).
        WillReturnError(assert.AnError)

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/token/refresh/",
        strings.NewReader(`{"refresh_token":"`+raw+`"}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    require.NoError(t, h.Refresh(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewAuthHandler(config.Config{JWTSecret: "test-secret", TokenTTLHours: 1, RefreshTTLDays: 7},
        repository.NewUserRepo(db), repository.NewTokenRepo(db))

    hash := utils.HashRefreshRaw("unknown")
    mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
        WithArgs(hash).
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/token/refresh/",
        strings.NewReader(`{"refresh_token":"unknown"}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    require.NoError(t, h.Refresh(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
