package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/mounti/trip-booking/internal/config"
    "github.com/mounti/trip-booking/internal/database"
    "github.com/mounti/trip-booking/internal/handler"
    "github.com/mounti/trip-booking/internal/queue"
    "github.com/mounti/trip-booking/internal/repository"
    "github.com/mounti/trip-booking/internal/router"
    "github.com/mounti/trip-booking/internal/service"
)

func main() {
    // .env is optional; real deployments set variables directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: nil disables the response cache and rate limiter.
    rdb := config.NewRedisClient()

    tripRepo := repository.NewTripRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    notifRepo := repository.NewNotificationRepo(db)
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)

    notifSvc := service.NewNotificationService(notifRepo)
    bookingSvc := service.NewBookingService(tripRepo, bookingRepo, userRepo, notifSvc,
        service.TransitionPolicy{ClientCancel: cfg.ClientCancel})

    authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    tripH := handler.NewTripHandler(tripRepo, userRepo)
    searchH := handler.NewSearchHandler(tripRepo)
    bookingH := handler.NewBookingHandler(bookingSvc)
    notifH := handler.NewNotificationHandler(notifSvc)

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, searchH, tripH, rdb)
    router.RegisterTransporter(e, tripH, bookingH, cfg.JWTSecret)
    router.RegisterClient(e, bookingH, notifH, cfg.JWTSecret, rdb)

    // Drain booking events in the background; the consumer reconnects on
    // broker failure and never takes the API down.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
