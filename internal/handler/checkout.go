package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/config"
    "shop-backend/internal/middleware"
    "shop-backend/internal/model"
    "shop-backend/internal/queue"
    "shop-backend/internal/repository"
)

// CheckoutHandler implements order placement.  A checkout is a single
// all-or-nothing transaction: shipping address, order row, order items
// and (for cart mode) the cart clear either all land or none do.  Unit
// prices are read inside the same transaction that writes the snapshot,
// so the stored total always matches the stored items.
type CheckoutHandler struct {
    Cfg      config.Config
    Orders   *repository.OrderRepo
    Carts    *repository.CartRepo
    Products *repository.ProductRepo
}

func NewCheckoutHandler(cfg config.Config, orders *repository.OrderRepo, carts *repository.CartRepo, products *repository.ProductRepo) *CheckoutHandler {
    if orders == nil || carts == nil || products == nil {
        panic("nil repository passed to NewCheckoutHandler")
    }
    return &CheckoutHandler{Cfg: cfg, Orders: orders, Carts: carts, Products: products}
}

type addressPayload struct {
    FullName string `json:"full_name"`
    Phone    string `json:"phone"`
    Address  string `json:"address"`
    City     string `json:"city"`
    State    string `json:"state"`
    Pincode  string `json:"pincode"`
}

// validate returns an error naming the first missing address field.  All
// fields are required at creation.
func (a addressPayload) validate() error {
    fields := []struct {
        name  string
        value string
    }{
        {"full_name", a.FullName},
        {"phone", a.Phone},
        {"address", a.Address},
        {"city", a.City},
        {"state", a.State},
        {"pincode", a.Pincode},
    }
    for _, f := range fields {
        if f.value == "" {
            return fmt.Errorf("%s is required", f.name)
        }
    }
    return nil
}

func (a addressPayload) toModel(userID uint64) model.Address {
    return model.Address{
        UserID:   userID,
        FullName: a.FullName,
        Phone:    a.Phone,
        Address:  a.Address,
        City:     a.City,
        State:    a.State,
        Pincode:  a.Pincode,
    }
}

type checkoutProduct struct {
    ProductID uint64 `json:"product_id"`
    Quantity  uint32 `json:"quantity"` // 0 -> default 1
}

type checkoutReq struct {
    CheckoutType string            `json:"checkout_type"` // buy_now | cart
    Products     []checkoutProduct `json:"products"`      // buy_now only
    addressPayload
}

// cartTotal sums current unit price x quantity over cart lines.
func cartTotal(lines []repository.CartLine) float64 {
    var total float64
    for _, l := range lines {
        total += l.UnitPrice * float64(l.Quantity)
    }
    return total
}

// Checkout handles POST /checkout/.  The body selects buy_now (one
// ad-hoc product, cart untouched) or cart (consume every cart line).
func (h *CheckoutHandler) Checkout(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req checkoutReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    switch req.CheckoutType {
    case "buy_now":
        return h.buyNow(c, userID, req)
    case "cart":
        return h.cartCheckout(c, userID, req)
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid checkout type!"})
    }
}

// buyNow places an order for a single product without touching the cart.
func (h *CheckoutHandler) buyNow(c echo.Context, userID uint64, req checkoutReq) error {
    success := false
    defer func() { middleware.RecordOrderOperation("checkout_buy_now", success) }()

    if len(req.Products) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "No product provided for Buy Now!"})
    }
    line := req.Products[0] // a buy-now order carries exactly one product
    if line.ProductID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "No product provided for Buy Now!"})
    }
    quantity := line.Quantity
    if quantity == 0 {
        quantity = 1
    }
    if err := req.addressPayload.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    tx, err := h.Orders.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    price, err := h.Products.GetPriceTx(ctx, tx, line.ProductID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product not found!"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    addr := req.addressPayload.toModel(userID)
    if err := h.Orders.CreateAddressTx(ctx, tx, &addr); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save address failed"})
    }

    order := model.Order{
        UserID:     userID,
        AddressID:  &addr.ID,
        TotalPrice: price * float64(quantity),
    }
    if err := h.Orders.CreateOrderTx(ctx, tx, &order); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
    }
    items := []model.OrderItem{{
        OrderID:   order.ID,
        ProductID: line.ProductID,
        Quantity:  quantity,
        Price:     price, // snapshot at purchase time
    }}
    if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order items failed"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    success = true

    h.publishPlaced(order, "buy_now", len(items))
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  "Buy Now Order placed successfully!",
        "order_id": order.ID,
    })
}

// cartCheckout converts every cart line into an order item and clears the
// cart.  Checkout is consuming: an immediately repeated call finds an
// empty cart.
func (h *CheckoutHandler) cartCheckout(c echo.Context, userID uint64, req checkoutReq) error {
    success := false
    defer func() { middleware.RecordOrderOperation("checkout_cart", success) }()

    if err := req.addressPayload.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    tx, err := h.Orders.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    lines, err := h.Carts.ListLinesTx(ctx, tx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if len(lines) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Your cart is empty!"})
    }

    addr := req.addressPayload.toModel(userID)
    if err := h.Orders.CreateAddressTx(ctx, tx, &addr); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save address failed"})
    }

    order := model.Order{
        UserID:     userID,
        AddressID:  &addr.ID,
        TotalPrice: cartTotal(lines),
    }
    if err := h.Orders.CreateOrderTx(ctx, tx, &order); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
    }

    items := make([]model.OrderItem, 0, len(lines))
    for _, l := range lines {
        items = append(items, model.OrderItem{
            OrderID:   order.ID,
            ProductID: l.ProductID,
            Quantity:  l.Quantity,
            Price:     l.UnitPrice, // snapshot at purchase time
        })
    }
    if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order items failed"})
    }
    if err := h.Carts.ClearUserTx(ctx, tx, userID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    success = true

    h.publishPlaced(order, "cart", len(items))
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  "Cart Order placed successfully!",
        "order_id": order.ID,
    })
}

// publishPlaced emits the order.placed event.  Failures are logged inside
// the publisher and deliberately ignored; the order is already committed.
func (h *CheckoutHandler) publishPlaced(order model.Order, checkoutType string, itemCount int) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = queue.PublishOrderPlaced(ctx, h.Cfg.RabbitURL, queue.OrderPlacedEvent{
        OrderID:      order.ID,
        UserID:       order.UserID,
        CheckoutType: checkoutType,
        ItemCount:    itemCount,
        TotalPrice:   order.TotalPrice,
        PlacedAt:     time.Now().UTC().Format(time.RFC3339),
    })
}
