package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// SessionTracking = หนึ่งครั้งที่เทรนเนอร์สแกน QR ของลูกค้าในวันนั้น
//
// unique key (trainer_id, qr_code_id, session_date, deleted_at) บังคับ
// กติกา "วันละ 1 สแกนต่อคู่เทรนเนอร์-ลูกค้า" เฉพาะ row ที่ยังไม่ถูกลบ
// (deleted_at = 0 ขณะ active, เป็น timestamp หลังลบ จึงไม่ชน key เดิม)
type SessionTracking struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	TrainerID       uint `gorm:"not null;index;uniqueIndex:uniq_scan_per_day" json:"trainer_id"`
	QRCodeID        uint `gorm:"not null;index;uniqueIndex:uniq_scan_per_day" json:"qr_code_id"`
	SessionVolumeID uint `gorm:"not null;index" json:"session_volume_id"`

	ScanTimestamp time.Time      `gorm:"not null" json:"scan_timestamp"`
	SessionDate   datatypes.Date `gorm:"not null;uniqueIndex:uniq_scan_per_day" json:"session_date"`

	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	DeletedAt soft_delete.DeletedAt `gorm:"softDelete:milli;uniqueIndex:uniq_scan_per_day" json:"-"`

	Trainer       User          `gorm:"foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	QRCode        QRCode        `gorm:"foreignKey:QRCodeID;references:ID" json:"qr_code,omitempty"`
	SessionVolume SessionVolume `gorm:"foreignKey:SessionVolumeID;references:ID" json:"session_volume,omitempty"`
}
