package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/repository"
)

// ContactHandler implements the contact form intake and its admin-side
// management.
type ContactHandler struct {
    Contacts *repository.ContactRepo
}

func NewContactHandler(contacts *repository.ContactRepo) *ContactHandler {
    if contacts == nil {
        panic("nil repository passed to NewContactHandler")
    }
    return &ContactHandler{Contacts: contacts}
}

type contactReq struct {
    Name    string `json:"name"`
    Email   string `json:"email"`
    Subject string `json:"subject"`
    Message string `json:"message"`
}

func (r contactReq) validate() error {
    if strings.TrimSpace(r.Name) == "" ||
        strings.TrimSpace(r.Email) == "" ||
        strings.TrimSpace(r.Subject) == "" ||
        strings.TrimSpace(r.Message) == "" {
        return errors.New("All fields are required.")
    }
    return nil
}

// Submit handles POST /contact/.  Open to anonymous callers.
func (h *ContactHandler) Submit(c echo.Context) error {
    var req contactReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := req.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Contacts.Create(ctx, req.Name, req.Email, req.Subject, req.Message); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save contact failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "Contact submitted successfully."})
}

// List handles GET /contact/.  Newest first.
func (h *ContactHandler) List(c echo.Context) error {
    contacts, err := h.Contacts.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, contacts)
}

// Delete handles DELETE /contact/:id/.  Admin only.
func (h *ContactHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid contact id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Contacts.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Contact not found."})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete contact failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Contact deleted successfully."})
}
