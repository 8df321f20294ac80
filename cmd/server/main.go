package main

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "shop-backend/internal/config"
    "shop-backend/internal/database"
    "shop-backend/internal/handler"
    "shop-backend/internal/middleware"
    "shop-backend/internal/queue"
    "shop-backend/internal/repository"
    "shop-backend/internal/router"
    "shop-backend/internal/storage"
)

func main() {
    // .env is a local development convenience; in deployment the
    // variables come from the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    if err := database.EnsureSchema(ctx, db); err != nil {
        cancel()
        log.Fatalf("schema: %v", err)
    }
    cancel()

    files, err := storage.NewDiskStore(cfg.MediaRoot)
    if err != nil {
        log.Fatalf("media root: %v", err)
    }

    rdb := config.NewRedisClient() // nil when Redis is not configured

    users := repository.NewUserRepo(db)
    admins := repository.NewAdminRepo(db)
    tokens := repository.NewTokenRepo(db)
    products := repository.NewProductRepo(db)
    images := repository.NewImageRepo(db)
    carts := repository.NewCartRepo(db)
    orders := repository.NewOrderRepo(db)
    contacts := repository.NewContactRepo(db)

    h := router.Handlers{
        Auth:      handler.NewAuthHandler(cfg, users, tokens),
        AdminAuth: handler.NewAdminAuthHandler(cfg, admins),
        Products:  handler.NewProductHandler(products, images, files),
        Carts:     handler.NewCartHandler(carts, products, images),
        Checkout:  handler.NewCheckoutHandler(cfg, orders, carts, products),
        Orders:    handler.NewOrderHandler(orders),
        Contacts:  handler.NewContactHandler(contacts),
    }

    if cfg.RabbitURL != "" {
        go queue.StartOrderConsumer(cfg.RabbitURL)
    }

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())
    e.Use(middleware.Prometheus())

    router.Register(e, h, cfg.JWTSecret, admins, rdb, files.Root())

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
