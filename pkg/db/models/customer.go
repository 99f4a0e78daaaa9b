package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the party a quotation is addressed to.
type Customer struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	CompanyName *string   `gorm:"column:company_name"`
	Email       *string   `gorm:"column:email"`
	Phone       *string   `gorm:"column:phone"`
	GSTIN       *string   `gorm:"column:gstin"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	Addresses   []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
