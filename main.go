package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/vaibhav5104/evgati-sub000/routes"
	"github.com/vaibhav5104/evgati-sub000/services"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	db := storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Background sweeper: expires stale pending reservations
	sweepInterval := time.Minute
	if raw := os.Getenv("SWEEP_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			sweepInterval = time.Duration(secs) * time.Second
		}
	}
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go services.NewSweeper(services.NewBookingService(db), sweepInterval).Start(sweeperCtx)

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
	}

	station := app.Party("/api/station")
	{
		station.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateStation)
		station.Get("/owner", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetOwnerStations)
		station.Get("/{id:uint}", routes.GetStation)
		station.Patch("/update/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateStation)
		station.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteStation)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/station/{id:uint}", routes.GetStationAvailability)
	}

	bookings := app.Party("/api/bookings")
	{
		bookings.Get("/station/{id:uint}", routes.GetBookingsByStationID)
		bookings.Post("/station/{id:uint}", accessTokenVerifierMiddleware, routes.CreateBooking)
		bookings.Post("/station/{id:uint}/validate", routes.ValidateBookingAvailability)
		bookings.Patch("/{id:uint}/approve", accessTokenVerifierMiddleware, routes.ApproveBooking)
		bookings.Patch("/{id:uint}/reject", accessTokenVerifierMiddleware, routes.RejectBooking)
		bookings.Patch("/{id:uint}/cancel", accessTokenVerifierMiddleware, routes.CancelBooking)
		bookings.Get("/user", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserBookings)
		bookings.Get("/owner", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetOwnerBookings)
		bookings.Post("/expire-pending", routes.ExpirePendingBookings)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListNotifications)
		notifications.Patch("/{id:uint}/read", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkNotificationRead)
		notifications.Get("/user", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserNotificationSummary)
		notifications.Get("/owner", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetOwnerNotificationSummary)
		notifications.Get("/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.GetAdminNotificationSummary)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Post("/users/{id:uint}/verify", routes.AdminVerifyUser)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Get("/stations", routes.AdminListStations)
		admin.Patch("/stations/{id:uint}/status", routes.AdminUpdateStationStatus)
		admin.Post("/stations/{id:uint}/flag", routes.AdminFlagStation)
		admin.Get("/reservations", routes.AdminListReservations)
		admin.Get("/reservations/{id:uint}", routes.AdminGetReservation)
		admin.Patch("/reservations/{id:uint}/status", routes.AdminUpdateReservationStatus)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
