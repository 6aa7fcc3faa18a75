package services

import (
	"fmt"
	"testing"
	"time"

	"trainer-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB เปิด sqlite in-memory - จำกัด 1 connection ไม่งั้น
// :memory: จะได้ DB คนละก้อนต่อ connection
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.QRCode{},
		&models.SessionVolume{},
		&models.SessionTracking{},
	))
	return db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role models.Role, name string, active bool) *models.User {
	t.Helper()
	userSeq++
	user := models.User{
		Email:        fmt.Sprintf("user%d@test.local", userSeq),
		PasswordHash: "x",
		FullName:     name,
		Role:         role,
		Active:       active,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCustomerProfile(t *testing.T, db *gorm.DB, userID uint, trainerID *uint) *models.Customer {
	t.Helper()
	profile := models.Customer{UserID: userID, TrainerID: trainerID}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

type testEnv struct {
	DB       *gorm.DB
	QRCodes  *QRCodeService
	Volumes  *VolumeService
	Sessions *SessionService
	Workflow *WorkflowService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	qrcodes := NewQRCodeService(db)
	volumes := NewVolumeService(db)
	return &testEnv{
		DB:       db,
		QRCodes:  qrcodes,
		Volumes:  volumes,
		Sessions: NewSessionService(db, qrcodes, volumes),
		Workflow: NewWorkflowService(db),
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }
