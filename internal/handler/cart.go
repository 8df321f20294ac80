package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "shop-backend/internal/repository"
)

// CartHandler implements the per-user cart operations.  All methods
// assume the user JWT middleware has run; ownership of individual lines
// is enforced inside the repository's WHERE clauses, never by a separate
// read.
type CartHandler struct {
    Carts    *repository.CartRepo
    Products *repository.ProductRepo
    Images   *repository.ImageRepo
}

func NewCartHandler(carts *repository.CartRepo, products *repository.ProductRepo, images *repository.ImageRepo) *CartHandler {
    if carts == nil || products == nil || images == nil {
        panic("nil repository passed to NewCartHandler")
    }
    return &CartHandler{Carts: carts, Products: products, Images: images}
}

type cartAddReq struct {
    ProductID uint64 `json:"product_id"`
    Quantity  *int   `json:"quantity"` // nil -> default 1
}

type cartUpdateReq struct {
    CartID   uint64 `json:"cart_id"`
    Quantity int    `json:"quantity"`
}

// Add handles POST /cart/.  Creates a line for (user, product) or
// atomically increments an existing one.  Quantity defaults to 1 and must
// be at least 1.
func (h *CartHandler) Add(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req cartAddReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.ProductID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product ID is required."})
    }
    quantity := 1
    if req.Quantity != nil {
        quantity = *req.Quantity
    }
    if quantity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exists, err := h.Products.Exists(ctx, req.ProductID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !exists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found."})
    }

    if err := h.Carts.AddOrIncrement(ctx, userID, req.ProductID, uint32(quantity)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Product added to cart successfully!"})
}

// List handles GET /cart/.  Subtotals are computed live from the current
// product price; the snapshot only happens at checkout.
func (h *CartHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx := c.Request().Context()
    items, err := h.Carts.ListByUser(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ids := make([]uint64, 0, len(items))
    for _, it := range items {
        ids = append(ids, it.Product.ID)
    }
    images, err := h.Images.ListByProducts(ctx, ids)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    for i := range items {
        items[i].Product.Images = imagesOrEmpty(images[items[i].Product.ID])
    }
    return c.JSON(http.StatusOK, items)
}

// Update handles POST /cart/update/.  Overwrites the line's quantity;
// the lower bound holds here as well.
func (h *CartHandler) Update(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req cartUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.CartID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart_id is required"})
    }
    if req.Quantity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Carts.UpdateQuantity(ctx, userID, req.CartID, uint32(req.Quantity)); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Cart item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Quantity updated successfully"})
}

// Remove handles DELETE /cart/delete/:cart_id/.
func (h *CartHandler) Remove(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    cartID, ok := pathID(c, "cart_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Carts.Remove(ctx, userID, cartID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Cart item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove from cart failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Item removed from cart"})
}
