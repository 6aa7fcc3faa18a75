// services/volume_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"trainer-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VolumeService ดูแล monthly aggregate ต่อคู่ (trainer, customer, period)
type VolumeService struct {
	DB *gorm.DB
}

func NewVolumeService(db *gorm.DB) *VolumeService {
	return &VolumeService{DB: db}
}

// NormalizePeriod บีบวันที่ใด ๆ ให้เป็นวันที่ 1 ของเดือน (UTC)
func NormalizePeriod(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
}

// DateOnly ตัดเวลาออก เหลือแต่วันที่ (UTC)
func DateOnly(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// GetOrCreateForPeriod: คืน volume เดิมของ key ถ้ามี ไม่งั้นสร้างใหม่
// status=draft count=0 - ปลอดภัยต่อ concurrent first-caller:
// ชน unique key แล้ว re-fetch เอา row ของคนที่ชนะแทน ไม่โยน error ให้ user
//
// รับ *gorm.DB เป็น argument เพื่อให้เรียกใน transaction ของ caller ได้
func (s *VolumeService) GetOrCreateForPeriod(db *gorm.DB, trainerID, customerID uint, period datatypes.Date) (*models.SessionVolume, bool, error) {
	var existing models.SessionVolume
	err := db.Where("trainer_id = ? AND customer_id = ? AND period = ?", trainerID, customerID, period).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check existing volume: %w", err)
	}

	volume := models.SessionVolume{
		TrainerID:  trainerID,
		CustomerID: customerID,
		Period:     period,
		Status:     models.StatusDraft,
	}
	if cErr := db.Create(&volume).Error; cErr != nil {
		if isDuplicateKeyError(cErr) {
			// แพ้ race → ใช้ row ของผู้ชนะ
			if fErr := db.Where("trainer_id = ? AND customer_id = ? AND period = ?", trainerID, customerID, period).
				First(&existing).Error; fErr == nil {
				return &existing, false, nil
			}
			return nil, false, fmt.Errorf("failed to re-fetch volume after conflict: %w", cErr)
		}
		return nil, false, fmt.Errorf("failed to create volume: %w", cErr)
	}
	return &volume, true, nil
}

// Create สำหรับ endpoint สร้าง volume ล่วงหน้า - ถ้า key ซ้ำถือเป็น conflict
func (s *VolumeService) Create(trainerID, customerID uint, period time.Time) (*models.SessionVolume, error) {
	volume, created, err := s.GetOrCreateForPeriod(s.DB, trainerID, customerID, NormalizePeriod(period))
	if err != nil {
		return nil, err
	}
	if !created {
		return volume, ErrVolumeExists
	}
	return volume, nil
}

// RecomputeCount ตั้ง session_count = จำนวน tracking ที่ยังไม่ถูกลบ
// เรียกทุกครั้งหลัง insert/remove - ไม่มีการ increment/decrement ตรง ๆ
func (s *VolumeService) RecomputeCount(db *gorm.DB, volumeID uint) (int, error) {
	var count int64
	if err := db.Model(&models.SessionTracking{}).
		Where("session_volume_id = ?", volumeID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	if err := db.Model(&models.SessionVolume{}).
		Where("id = ?", volumeID).
		Update("session_count", count).Error; err != nil {
		return 0, fmt.Errorf("failed to update session count: %w", err)
	}
	return int(count), nil
}

func (s *VolumeService) GetByID(id uint) (*models.SessionVolume, error) {
	var volume models.SessionVolume
	err := s.DB.Preload("Trainer").Preload("Customer").First(&volume, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolumeNotFound
		}
		return nil, fmt.Errorf("failed to find volume: %w", err)
	}
	return &volume, nil
}

// VolumeContentUpdate - nil = ไม่แตะ field นั้น
type VolumeContentUpdate struct {
	Plans        *string
	Notes        *string
	SessionCount *int
}

// EditContent แก้เนื้อหาได้เฉพาะตอน draft / rejected
func (s *VolumeService) EditContent(volumeID uint, update VolumeContentUpdate) (*models.SessionVolume, error) {
	var volume models.SessionVolume
	if err := s.DB.First(&volume, volumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolumeNotFound
		}
		return nil, fmt.Errorf("failed to find volume: %w", err)
	}

	if !volume.IsEditable() {
		return nil, ErrVolumeNotEditable
	}

	updates := map[string]interface{}{}
	if update.Plans != nil {
		updates["plans"] = *update.Plans
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.SessionCount != nil {
		updates["session_count"] = *update.SessionCount
	}
	if len(updates) == 0 {
		return &volume, nil
	}

	if err := s.DB.Model(&volume).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update volume: %w", err)
	}
	return &volume, nil
}

// SoftDelete - ห้ามลบ volume ที่ approved แล้ว
// ลูก ๆ (session trackings) ถูก soft delete ตามไปด้วย
func (s *VolumeService) SoftDelete(volumeID uint) error {
	var volume models.SessionVolume
	if err := s.DB.First(&volume, volumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVolumeNotFound
		}
		return fmt.Errorf("failed to find volume: %w", err)
	}

	if volume.IsApproved() {
		return ErrVolumeImmutable
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_volume_id = ?", volumeID).
			Delete(&models.SessionTracking{}).Error; err != nil {
			return fmt.Errorf("failed to delete volume sessions: %w", err)
		}
		if err := tx.Delete(&volume).Error; err != nil {
			return fmt.Errorf("failed to delete volume: %w", err)
		}
		return nil
	})
}

// VolumeFilter สำหรับ listing - field ที่เป็น zero value = ไม่ filter
type VolumeFilter struct {
	TrainerID   uint
	CustomerID  uint
	Status      models.VolumeStatus
	StartPeriod *time.Time
	EndPeriod   *time.Time
	Offset      int
	Limit       int
}

// GetFiltered - caller (controller) เป็นคน scope filter ตาม role ก่อนเรียก
func (s *VolumeService) GetFiltered(filter VolumeFilter) ([]models.SessionVolume, error) {
	query := s.DB.Preload("Trainer").Preload("Customer").Model(&models.SessionVolume{})

	if filter.TrainerID != 0 {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartPeriod != nil {
		query = query.Where("period >= ?", NormalizePeriod(*filter.StartPeriod))
	}
	if filter.EndPeriod != nil {
		query = query.Where("period <= ?", NormalizePeriod(*filter.EndPeriod))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var volumes []models.SessionVolume
	err := query.Order("period DESC, id DESC").Offset(filter.Offset).Limit(limit).Find(&volumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}
	return volumes, nil
}

// TotalSessionsForTrainer รวม session_count ของทุก volume ของเทรนเนอร์
func (s *VolumeService) TotalSessionsForTrainer(trainerID uint) (int, error) {
	var total int64
	err := s.DB.Model(&models.SessionVolume{}).
		Where("trainer_id = ?", trainerID).
		Select("COALESCE(SUM(session_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum trainer sessions: %w", err)
	}
	return int(total), nil
}

// TotalSessionsForCustomer รวม session_count ฝั่งลูกค้า (ทุกเทรนเนอร์)
func (s *VolumeService) TotalSessionsForCustomer(customerID uint) (int, error) {
	var total int64
	err := s.DB.Model(&models.SessionVolume{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(session_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum customer sessions: %w", err)
	}
	return int(total), nil
}
