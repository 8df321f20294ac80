package handler

import (
    "context"
    "crypto/subtle"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/config"
    "shop-backend/internal/repository"
    "shop-backend/internal/utils"
)

// AdminAuthHandler bundles dependencies for the admin login and the
// bootstrap endpoint.  Admins authenticate against their own table and
// receive tokens carrying the is_admin claim; the two token kinds are
// never interchangeable.
type AdminAuthHandler struct {
    Cfg    config.Config
    Admins *repository.AdminRepo
}

func NewAdminAuthHandler(cfg config.Config, a *repository.AdminRepo) *AdminAuthHandler {
    return &AdminAuthHandler{Cfg: cfg, Admins: a}
}

// Login verifies admin credentials and returns an admin access token.
func (h *AdminAuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Admins.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(a.PasswordHash, req.Password) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
    }

    access, err := utils.IssueAdminToken(h.Cfg.JWTSecret, a.ID, a.Email,
        time.Duration(h.Cfg.TokenTTLHours)*time.Hour)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "access": access.Token,
        "admin": echo.Map{
            "id":    a.ID,
            "email": a.Email,
        },
    })
}

// Bootstrap creates an admin account.  There is no self-service admin
// signup: admin creation is a deployment-time operation guarded by a
// shared secret presented in the X-Bootstrap-Token header.  Creating an
// admin whose email already exists is a 409.
func (h *AdminAuthHandler) Bootstrap(c echo.Context) error {
    token := c.Request().Header.Get("X-Bootstrap-Token")
    if subtle.ConstantTimeCompare([]byte(token), []byte(h.Cfg.BootstrapToken)) != 1 {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.Admins.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "admin already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "id":    id,
        "email": req.Email,
    })
}
