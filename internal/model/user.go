package model

import (
	"time"

	"gorm.io/gorm"
)

// Account roles. Role strings match the original account records.
const (
	RoleAdmin   = "admin"
	RoleClient  = "cliente"
	RoleCompany = "empresa"
)

// User represents a client or administrator account
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(50);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'cliente'"`
	Address   string         `json:"address" gorm:"type:varchar(100)"`
	Region    string         `json:"region" gorm:"type:varchar(60)"`
	Commune   string         `json:"commune" gorm:"type:varchar(60)"`
	Phone     string         `json:"phone" gorm:"type:varchar(12)"`
	CompanyID *uint          `json:"company_id,omitempty" gorm:"index"`
	MainAdmin bool           `json:"main_admin" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
