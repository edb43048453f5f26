package model

import (
	"time"

	"gorm.io/gorm"
)

// Company represents a food-donating company account. Companies own products
// and resolve the orders placed against them.
type Company struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(50);not null"`
	RUT       string         `json:"rut" gorm:"type:varchar(12);uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Address   string         `json:"address" gorm:"type:varchar(100)"`
	Region    string         `json:"region" gorm:"type:varchar(60)"`
	Commune   string         `json:"commune" gorm:"type:varchar(60)"`
	Phone     string         `json:"phone" gorm:"type:varchar(12)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
