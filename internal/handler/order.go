package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/middleware"
    "shop-backend/internal/repository"
)

// OrderHandler implements order history and cancellation for users plus
// the cross-user listing for admins.
type OrderHandler struct {
    Orders *repository.OrderRepo
}

func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
    if orders == nil {
        panic("nil repository passed to NewOrderHandler")
    }
    return &OrderHandler{Orders: orders}
}

// MyOrders handles GET /my-orders/.  Newest first; every order carries
// its snapshot items and the address as captured at checkout.
func (h *OrderHandler) MyOrders(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    orders, err := h.Orders.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, orders)
}

// Cancel handles DELETE /cancel-order/:order_id/.  Ownership is enforced
// in the delete's WHERE clause; another user's order id reads as absent.
func (h *OrderHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    orderID, ok := pathID(c, "order_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Orders.DeleteOwned(ctx, userID, orderID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            middleware.RecordOrderOperation("cancel", false)
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found!"})
        }
        middleware.RecordOrderOperation("cancel", false)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel order failed"})
    }
    middleware.RecordOrderOperation("cancel", true)
    return c.JSON(http.StatusOK, echo.Map{"message": "Order cancelled successfully!"})
}

// AdminOrders handles GET /api/admin/orders/.  Returns every order in the
// system enriched with the purchasing user's name and email.
func (h *OrderHandler) AdminOrders(c echo.Context) error {
    orders, err := h.Orders.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong"})
    }
    return c.JSON(http.StatusOK, orders)
}
