package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/vaibhav5104/evgati-sub000/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database. The shared-cache name is
// keyed by the test so parallel tests never see each other's data.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Station{},
		&models.Reservation{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := models.User{
		FirstName:          role,
		LastName:           "tester",
		Email:              fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Role:               role,
		VerificationStatus: "approved",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedStation(t *testing.T, db *gorm.DB, ownerID uint, totalPorts int, status string) *models.Station {
	t.Helper()

	active := true
	station := models.Station{
		OwnerID:    ownerID,
		Name:       "Test Station",
		City:       "Pune",
		Country:    "India",
		TotalPorts: totalPorts,
		Status:     status,
		IsActive:   &active,
	}
	if err := db.Create(&station).Error; err != nil {
		t.Fatalf("seed station: %v", err)
	}
	return &station
}

// newTestBookingService pins the service clock to base so window validation
// is deterministic.
func newTestBookingService(db *gorm.DB, base time.Time) *BookingService {
	svc := NewBookingService(db)
	svc.Now = func() time.Time { return base }
	return svc
}
