package routes

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"
	"github.com/vaibhav5104/evgati-sub000/storage"
	"github.com/vaibhav5104/evgati-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testAppOnce sync.Once
	testApp     *iris.Application
	testAppErr  error
)

// buildTestApp wires the booking, availability and admin routes against an
// in-memory database, mirroring the registration in main. The app and the
// database are shared across the package's tests because the booking service
// singleton binds to storage.DB on first use.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	testAppOnce.Do(func() {
		os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

		db, err := gorm.Open(sqlite.Open("file:routes?mode=memory&cache=shared"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			testAppErr = err
			return
		}
		err = db.AutoMigrate(
			&models.User{},
			&models.Station{},
			&models.Reservation{},
			&models.Notification{},
			&models.AuditLog{},
		)
		if err != nil {
			testAppErr = err
			return
		}
		storage.DB = db

		app := iris.New()
		app.Validator = validator.New()

		accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
		accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
			return new(utils.AccessToken)
		})

		availability := app.Party("/api/availability")
		{
			availability.Get("/station/{id:uint}", GetStationAvailability)
		}

		bookings := app.Party("/api/bookings")
		{
			bookings.Post("/station/{id:uint}", accessTokenVerifierMiddleware, CreateBooking)
			bookings.Post("/station/{id:uint}/validate", ValidateBookingAvailability)
			bookings.Patch("/{id:uint}/approve", accessTokenVerifierMiddleware, ApproveBooking)
			bookings.Patch("/{id:uint}/reject", accessTokenVerifierMiddleware, RejectBooking)
			bookings.Patch("/{id:uint}/cancel", accessTokenVerifierMiddleware, CancelBooking)
		}

		admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
		{
			admin.Get("/users", AdminListUsers)
			admin.Patch("/stations/{id:uint}/status", AdminUpdateStationStatus)
		}

		if err := app.Build(); err != nil {
			testAppErr = err
			return
		}
		testApp = app
	})

	if testAppErr != nil {
		t.Fatalf("build test app: %v", testAppErr)
	}
	return testApp
}

// resetTables clears all rows so tests sharing the database start clean.
func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"reservations", "notifications", "audit_logs", "stations", "users"} {
		if err := storage.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
}

var emailSeq int

func seedRouteUser(t *testing.T, role string) *models.User {
	t.Helper()
	emailSeq++
	user := models.User{
		FirstName:          role,
		LastName:           "tester",
		Email:              fmt.Sprintf("%s-%d@example.com", role, emailSeq),
		Role:               role,
		VerificationStatus: "approved",
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedRouteStation(t *testing.T, ownerID uint, totalPorts int, status string) *models.Station {
	t.Helper()
	active := true
	station := models.Station{
		OwnerID:    ownerID,
		Name:       "Route Test Station",
		City:       "Pune",
		Country:    "India",
		TotalPorts: totalPorts,
		Status:     status,
		IsActive:   &active,
	}
	if err := storage.DB.Create(&station).Error; err != nil {
		t.Fatalf("seed station: %v", err)
	}
	return &station
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// signTestToken returns a signed access token for the given principal.
func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}
