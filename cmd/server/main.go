package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/config"
	"github.com/unitravel/tour-booking-api/internal/database"
	"github.com/unitravel/tour-booking-api/internal/handler"
	appmw "github.com/unitravel/tour-booking-api/internal/middleware"
	"github.com/unitravel/tour-booking-api/internal/queue"
	"github.com/unitravel/tour-booking-api/internal/repository"
	"github.com/unitravel/tour-booking-api/internal/router"
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

	// Redis is optional: when unreachable the cache and the rate limiter
	// degrade to pass-through middlewares.
	rdb := config.NewRedisClient()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tours := repository.NewTourRepo(db)
	dates := repository.NewTourDateRepo(db)
	bookings := repository.NewBookingRepo(db)
	packages := repository.NewPackageRepo(db)
	pkgBookings := repository.NewPackageBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	spots := repository.NewSpotRepo(db)
	messages := repository.NewMessageRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(tours, dates, packages, spots)
	contactH := handler.NewContactHandler(messages, cfg.JWTSecret)
	studentBookingH := handler.NewStudentBookingHandler(tours, dates, bookings)
	studentPackageH := handler.NewStudentPackageHandler(packages, pkgBookings)
	studentPaymentH := handler.NewStudentPaymentHandler(pkgBookings, payments)
	adminTourH := handler.NewAdminTourHandler(tours, dates, bookings)
	adminBookingH := handler.NewAdminBookingHandler(bookings, dates)
	adminPackageH := handler.NewAdminPackageHandler(packages, pkgBookings)
	adminPaymentH := handler.NewAdminPaymentHandler(payments)
	adminSpotH := handler.NewAdminSpotHandler(spots)
	adminMessageH := handler.NewAdminMessageHandler(messages)

	e := echo.New()
	e.HideBanner = true

	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(appmw.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, contactH)
	router.RegisterStudent(e, studentBookingH, studentPackageH, studentPaymentH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminTourH, adminBookingH, adminPackageH, adminPaymentH, adminSpotH, adminMessageH, cfg.JWTSecret)

	// Background consumer that appends booking status changes to
	// logs/booking.log.  It reconnects on broker failures.
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
