package models

import (
	"time"

	"gorm.io/gorm"
)

// Role เป็น closed enum - ห้ามเก็บ role เป็น string อิสระ
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTrainer  Role = "trainer"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:255" json:"full_name"`
	Role         Role   `gorm:"size:20;not null;index" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsActive: user ต้อง active และยังไม่ถูก soft delete
func (u *User) IsActive() bool {
	return u.Active && !u.DeletedAt.Valid
}

func (u *User) HasRole(role Role) bool {
	return u.Role == role
}
