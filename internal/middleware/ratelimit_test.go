package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "shop-backend/internal/config"
)

func TestLoginRateLimitPassthrough(t *testing.T) {
    cases := []struct {
        name string
        cfg  config.RateLimitConfig
    }{
        {"disabled", config.RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute, Prefix: "rl"}},
        {"no redis client", config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            mw := LoginRateLimit(tc.cfg, nil)
            e := echo.New()
            req := httptest.NewRequest(http.MethodPost, "/api/login/", nil)
            rec := httptest.NewRecorder()
            c := e.NewContext(req, rec)

            h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
            assert.NoError(t, h(c))
            assert.Equal(t, http.StatusOK, rec.Code)
        })
    }
}
