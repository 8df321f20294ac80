package router

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/redis/go-redis/v9"

    "shop-backend/internal/config"
    "shop-backend/internal/handler"
    "shop-backend/internal/middleware"
)

// Handlers collects every handler the route table needs.  Routes keep the
// trailing-slash form clients already depend on.
type Handlers struct {
    Auth      *handler.AuthHandler
    AdminAuth *handler.AdminAuthHandler
    Products  *handler.ProductHandler
    Carts     *handler.CartHandler
    Checkout  *handler.CheckoutHandler
    Orders    *handler.OrderHandler
    Contacts  *handler.ContactHandler
}

// Register wires the full route table.  jwtSecret feeds both token
// middlewares; admins backs the per-request admin re-check; rdb may be
// nil, which disables login rate limiting.
func Register(e *echo.Echo, h Handlers, jwtSecret string, admins middleware.AdminLookup, rdb *redis.Client, mediaRoot string) {
    userJWT := middleware.UserJWT(jwtSecret)
    adminJWT := middleware.AdminJWT(jwtSecret, admins)
    loginLimit := middleware.LoginRateLimit(config.LoadRateLimitConfig(), rdb)

    // Operational endpoints.
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

    // Uploaded product images are served straight from the media root.
    e.Static("/media", mediaRoot)

    // User auth.  Login endpoints sit behind the rate limiter; register
    // and refresh do not, matching the limiter's brute-force scope.
    e.POST("/api/register/", h.Auth.Register)
    e.POST("/api/login/", h.Auth.Login, loginLimit)
    e.POST("/api/token/refresh/", h.Auth.Refresh)

    // Admin auth.
    e.POST("/api/admin-login/", h.AdminAuth.Login, loginLimit)
    e.POST("/api/admin/bootstrap/", h.AdminAuth.Bootstrap)

    // Catalog.  Reads are public; every mutation is admin-gated.
    e.GET("/product/", h.Products.List)
    e.GET("/product/:id/", h.Products.Get)
    e.POST("/product/", h.Products.Create, adminJWT)
    e.PUT("/product/:id/", h.Products.Update, adminJWT)
    e.DELETE("/product/:id/", h.Products.Delete, adminJWT)
    e.POST("/upload-images/", h.Products.UploadImages, adminJWT)
    e.DELETE("/delete-product-images/:product_id/", h.Products.DeleteImages, adminJWT)

    // Cart, scoped to the authenticated user.
    e.POST("/cart/", h.Carts.Add, userJWT)
    e.GET("/cart/", h.Carts.List, userJWT)
    e.POST("/cart/update/", h.Carts.Update, userJWT)
    e.DELETE("/cart/delete/:cart_id/", h.Carts.Remove, userJWT)

    // Orders.
    e.POST("/checkout/", h.Checkout.Checkout, userJWT)
    e.GET("/my-orders/", h.Orders.MyOrders, userJWT)
    e.DELETE("/cancel-order/:order_id/", h.Orders.Cancel, userJWT)
    e.GET("/api/admin/orders/", h.Orders.AdminOrders, adminJWT)

    // Contact intake.
    e.POST("/contact/", h.Contacts.Submit)
    e.GET("/contact/", h.Contacts.List)
    e.DELETE("/contact/:id/", h.Contacts.Delete, adminJWT)
}
