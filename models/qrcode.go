package models

import (
	"time"
)

// QRCode ผูก 1:1 กับ user - token ถาวร ไม่มี update/delete
type QRCode struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Token  string `gorm:"size:128;uniqueIndex;not null" json:"token"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
