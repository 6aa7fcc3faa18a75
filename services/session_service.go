// services/session_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"trainer-backend/models"

	"gorm.io/gorm"
)

// SessionService บันทึกการสแกน QR เป็น SessionTracking รายวัน
type SessionService struct {
	DB      *gorm.DB
	QRCodes *QRCodeService
	Volumes *VolumeService
}

func NewSessionService(db *gorm.DB, qrcodes *QRCodeService, volumes *VolumeService) *SessionService {
	return &SessionService{DB: db, QRCodes: qrcodes, Volumes: volumes}
}

// TrackResult คือผลการสแกนสำเร็จ
// Warning ไม่ว่างเมื่อลูกค้ามีเทรนเนอร์ประจำเป็นคนละคน (ไม่ block)
type TrackResult struct {
	Session      *models.SessionTracking
	Volume       *models.SessionVolume
	CustomerName string
	Warning      string
}

// Track บันทึก 1 session ต่อ (trainer, customer, วัน)
//
// ลำดับ: resolve token → เช็ค customer active → ใน transaction เดียว:
// เช็คซ้ำรายวัน → get-or-create volume ของเดือนนั้น → insert → recompute count
// การชน unique key ระหว่าง transaction คู่ขนานถูกแปลงเป็น DuplicateScanError
// (retry re-fetch หนึ่งครั้ง ไม่ retry ทั้ง operation)
func (s *SessionService) Track(trainerID uint, token string, sessionDate *time.Time) (*TrackResult, error) {
	qr, err := s.QRCodes.ResolveToken(token)
	if err != nil {
		return nil, err
	}

	customer := qr.User
	if !customer.IsActive() {
		return nil, ErrCustomerInactive
	}

	day := time.Now().UTC()
	if sessionDate != nil {
		day = *sessionDate
	}
	date := DateOnly(day)
	dateStr := time.Time(date).Format("2006-01-02")

	result := &TrackResult{CustomerName: customer.FullName}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// daily dedup check ก่อน insert เพื่อให้ตอบ 409 พร้อมข้อมูล row เดิม
		var existing models.SessionTracking
		err := tx.Where("trainer_id = ? AND qr_code_id = ? AND session_date = ?", trainerID, qr.ID, date).
			First(&existing).Error
		if err == nil {
			return &DuplicateScanError{
				SessionID:    existing.ID,
				VolumeID:     existing.SessionVolumeID,
				CustomerName: customer.FullName,
				SessionDate:  dateStr,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check duplicate scan: %w", err)
		}

		volume, _, err := s.Volumes.GetOrCreateForPeriod(tx, trainerID, customer.ID, NormalizePeriod(day))
		if err != nil {
			return err
		}

		tracking := models.SessionTracking{
			TrainerID:       trainerID,
			QRCodeID:        qr.ID,
			SessionVolumeID: volume.ID,
			ScanTimestamp:   time.Now().UTC(),
			SessionDate:     date,
		}
		if cErr := tx.Create(&tracking).Error; cErr != nil {
			if isDuplicateKeyError(cErr) {
				// แพ้ race กับสแกนคู่ขนาน → row เดิมคือของผู้ชนะ
				if fErr := tx.Where("trainer_id = ? AND qr_code_id = ? AND session_date = ?", trainerID, qr.ID, date).
					First(&existing).Error; fErr == nil {
					return &DuplicateScanError{
						SessionID:    existing.ID,
						VolumeID:     existing.SessionVolumeID,
						CustomerName: customer.FullName,
						SessionDate:  dateStr,
					}
				}
			}
			return fmt.Errorf("failed to create session tracking: %w", cErr)
		}

		count, err := s.Volumes.RecomputeCount(tx, volume.ID)
		if err != nil {
			return err
		}
		volume.SessionCount = count

		result.Session = &tracking
		result.Volume = volume
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	result.Warning = s.TrainerMismatchWarning(trainerID, customer.ID)
	return result, nil
}

// TrainerMismatchWarning: side-channel signal ไม่ใช่ policy denial
// คืน "" เมื่อไม่มี profile / ไม่มีเทรนเนอร์ประจำ / เป็นคนเดียวกัน
func (s *SessionService) TrainerMismatchWarning(trainerID, customerUserID uint) string {
	var profile models.Customer
	err := s.DB.Preload("Trainer").Where("user_id = ?", customerUserID).First(&profile).Error
	if err != nil {
		return ""
	}
	if !profile.HasTrainer() || *profile.TrainerID == trainerID {
		return ""
	}
	assignedName := "another trainer"
	if profile.Trainer != nil && profile.Trainer.FullName != "" {
		assignedName = profile.Trainer.FullName
	}
	return fmt.Sprintf("this customer is assigned to trainer %s", assignedName)
}

// Remove: administrative correction - soft delete แล้ว recompute count
// จงใจไม่เช็ค workflow status: การลบย้อนหลังเป็น audit operation
func (s *SessionService) Remove(sessionID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var tracking models.SessionTracking
		if err := tx.First(&tracking, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to find session: %w", err)
		}

		if err := tx.Delete(&tracking).Error; err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		_, err := s.Volumes.RecomputeCount(tx, tracking.SessionVolumeID)
		return err
	})
}

func (s *SessionService) GetByID(sessionID uint) (*models.SessionTracking, error) {
	var tracking models.SessionTracking
	err := s.DB.Preload("Trainer").Preload("QRCode.User").Preload("SessionVolume").
		First(&tracking, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &tracking, nil
}

// SessionFilter - zero value = ไม่ filter
type SessionFilter struct {
	TrainerID uint
	VolumeID  uint
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

func (s *SessionService) GetFiltered(filter SessionFilter) ([]models.SessionTracking, error) {
	query := s.DB.Preload("Trainer").Preload("QRCode.User").Model(&models.SessionTracking{})

	if filter.TrainerID != 0 {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.VolumeID != 0 {
		query = query.Where("session_volume_id = ?", filter.VolumeID)
	}
	if filter.StartDate != nil {
		query = query.Where("session_date >= ?", DateOnly(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("session_date <= ?", DateOnly(*filter.EndDate))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var sessions []models.SessionTracking
	err := query.Order("scan_timestamp DESC").Offset(filter.Offset).Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
