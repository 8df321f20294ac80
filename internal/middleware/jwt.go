package middleware // middleware provides shared request processing for handlers

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/utils"
)

// UserJWT returns an Echo middleware that validates a Bearer access token
// for an end user and injects the subject and username claims into the
// request context under "user_id" and "username".  Only protected route
// groups mount this middleware; public routes never inspect the header,
// which is how "no Authorization header" stays a non-error for them.
//
// Admin tokens are rejected here: the two principal kinds share no table
// and must not authenticate each other's endpoints.
func UserJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.VerifyUserToken(secret, raw)
            if err != nil {
                return c.JSON(authStatus(err), echo.Map{"error": authMessage(err)})
            }
            c.Set("user_id", claims.UserID)
            c.Set("username", claims.Username)
            return next(c)
        }
    }
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    return strings.TrimPrefix(auth, "Bearer "), true
}

// authStatus maps token verification errors onto HTTP statuses: wrong
// principal kind is a 403, everything else a 401.
func authStatus(err error) int {
    if errors.Is(err, utils.ErrNotAdmin) || errors.Is(err, utils.ErrAdminToken) {
        return http.StatusForbidden
    }
    return http.StatusUnauthorized
}

// authMessage keeps the response bodies stable per failure mode.
func authMessage(err error) string {
    switch {
    case errors.Is(err, utils.ErrExpiredToken):
        return "token expired"
    case errors.Is(err, utils.ErrInvalidSignature):
        return "invalid token signature"
    case errors.Is(err, utils.ErrNotAdmin):
        return "admin token required"
    case errors.Is(err, utils.ErrAdminToken):
        return "admin token not valid here"
    default:
        return "invalid token"
    }
}
