package middleware

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/utils"
)

// AdminLookup resolves admin principals against the store.  The admin
// verification path, unlike the generic user path, re-checks existence on
// every request so a deleted admin's outstanding tokens die immediately.
type AdminLookup interface {
    ExistsByID(ctx context.Context, id uint64) (bool, error)
}

// AdminJWT returns an Echo middleware that validates an admin Bearer
// token.  Beyond signature and expiry it requires the is_admin claim
// (403 otherwise) and a live admin row (401 when the admin is gone).  On
// success the admin id and email are stored under "admin_id" and
// "admin_email".
func AdminJWT(secret string, admins AdminLookup) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.VerifyAdminToken(secret, raw)
            if err != nil {
                return c.JSON(authStatus(err), echo.Map{"error": authMessage(err)})
            }
            exists, err := admins.ExistsByID(c.Request().Context(), claims.AdminID)
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "admin lookup failed"})
            }
            if !exists {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "admin not found"})
            }
            c.Set("admin_id", claims.AdminID)
            c.Set("admin_email", claims.Email)
            return next(c)
        }
    }
}
