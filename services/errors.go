package services

import (
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Error codes ระดับ service - controller เป็นคนแปลงเป็น HTTP status
var (
	ErrQRCodeNotFound    = errors.New("qr_code_not_found")
	ErrUserNotFound      = errors.New("user_not_found")
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrVolumeNotFound    = errors.New("volume_not_found")
	ErrCustomerInactive  = errors.New("customer_inactive")
	ErrDuplicateScan     = errors.New("duplicate_scan")
	ErrVolumeExists      = errors.New("volume_already_exists")
	ErrVolumeNotEditable = errors.New("volume_not_editable")
	ErrVolumeImmutable   = errors.New("volume_immutable")
	ErrReasonRequired    = errors.New("rejection_reason_required")
	ErrPermissionDenied  = errors.New("permission_denied")
	ErrInvalidPeriod     = errors.New("invalid_period")
)

// DuplicateScanError พกข้อมูลของ session เดิมไว้ให้ caller ใช้ต่อ
// errors.Is(err, ErrDuplicateScan) ยังใช้ได้ตามปกติ
type DuplicateScanError struct {
	SessionID    uint
	VolumeID     uint
	CustomerName string
	SessionDate  string
}

func (e *DuplicateScanError) Error() string {
	return fmt.Sprintf("session already recorded for %s on %s", e.CustomerName, e.SessionDate)
}

func (e *DuplicateScanError) Is(target error) bool {
	return target == ErrDuplicateScan
}

// isDuplicateKeyError: MySQL 1062 / sqlite "UNIQUE constraint failed"
// (string fallback ไว้ให้ test driver ด้วย)
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysqldrv.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate entry") || strings.Contains(lower, "unique constraint failed")
}
