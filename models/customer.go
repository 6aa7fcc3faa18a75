// models/customer.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer คือ profile row ของ user ที่มี role = customer
// TrainerID = เทรนเนอร์ประจำ (nullable) ใช้เตือนตอนสแกนข้ามเทรนเนอร์
type Customer struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	TrainerID *uint `gorm:"index" json:"trainer_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Trainer *User `gorm:"foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
}

func (c *Customer) HasTrainer() bool {
	return c.TrainerID != nil
}
