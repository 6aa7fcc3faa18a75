// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"

	"trainer-backend/models"
	"trainer-backend/utils"

	"gorm.io/gorm"
)

// QRCodeService เป็น wrapper รอบ *gorm.DB สำหรับ token registry
// token ผูก 1:1 กับ user - ออกครั้งเดียว ไม่มี update/delete
type QRCodeService struct {
	DB *gorm.DB
}

func NewQRCodeService(db *gorm.DB) *QRCodeService {
	return &QRCodeService{DB: db}
}

const scanTokenLength = 32

// GetOrCreateForUser: idempotent - คืน QR เดิมถ้าเคยออกแล้ว
// ถ้ายังไม่มี สุ่ม token ใหม่วนจนกว่าจะไม่ชนกับของเดิมในระบบ
func (s *QRCodeService) GetOrCreateForUser(userID uint) (*models.QRCode, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var existing models.QRCode
	err := s.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing qr code: %w", err)
	}

	// create with retries on unique collision (token หรือ user_id ชน)
	maxRetries := 5
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		token, gErr := utils.GenerateScanToken(scanTokenLength)
		if gErr != nil {
			return nil, fmt.Errorf("failed to generate token: %w", gErr)
		}

		qr := models.QRCode{UserID: userID, Token: token}
		if cErr := s.DB.Create(&qr).Error; cErr != nil {
			if isDuplicateKeyError(cErr) {
				// อาจเป็น concurrent caller สร้าง row ของ user นี้ไปก่อน
				if fErr := s.DB.Where("user_id = ?", userID).First(&existing).Error; fErr == nil {
					return &existing, nil
				}
				lastErr = cErr
				continue // token ชน → สุ่มใหม่
			}
			return nil, fmt.Errorf("failed to create qr code: %w", cErr)
		}
		return &qr, nil
	}
	return nil, fmt.Errorf("failed to create qr code after %d attempts: %w", maxRetries, lastErr)
}

// ResolveToken: pure lookup พร้อม preload user
func (s *QRCodeService) ResolveToken(token string) (*models.QRCode, error) {
	var qr models.QRCode
	err := s.DB.Preload("User").Where("token = ?", token).First(&qr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return &qr, nil
}
