package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// SessionVolume = ยอดรวมรายเดือนต่อคู่ (trainer, customer)
// Period ถูก normalize เป็นวันที่ 1 ของเดือนเสมอ
//
// SessionCount เป็นค่า derived - recompute จากจำนวน SessionTracking
// ที่ยังไม่ถูกลบทุกครั้งที่มี insert/remove ห้าม increment ลอย ๆ
type SessionVolume struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TrainerID  uint `gorm:"not null;index;uniqueIndex:uniq_volume_period" json:"trainer_id"`
	CustomerID uint `gorm:"not null;index;uniqueIndex:uniq_volume_period" json:"customer_id"`

	Period       datatypes.Date `gorm:"not null;uniqueIndex:uniq_volume_period" json:"period"`
	SessionCount int            `gorm:"not null;default:0" json:"session_count"`

	Plans  string       `gorm:"type:text" json:"plans"`
	Notes  string       `gorm:"type:text" json:"notes"`
	Status VolumeStatus `gorm:"size:20;not null;default:draft;index" json:"status"`

	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	DeletedAt soft_delete.DeletedAt `gorm:"softDelete:milli;uniqueIndex:uniq_volume_period" json:"-"`

	Trainer  User `gorm:"foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	Customer User `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`

	Sessions []SessionTracking `gorm:"foreignKey:SessionVolumeID" json:"sessions,omitempty"`
}

// IsEditable: แก้ plans/notes/count ได้เฉพาะ draft กับ rejected
func (v *SessionVolume) IsEditable() bool {
	return v.Status == StatusDraft || v.Status == StatusRejected
}

func (v *SessionVolume) IsApproved() bool {
	return v.Status == StatusApproved
}
