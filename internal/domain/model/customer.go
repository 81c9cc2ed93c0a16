package model

import "time"

// Customer is a buyer account. The ID is the external auth subject, so
// webhook metadata can reference customers without a mapping table.
type Customer struct {
	ID          string    `gorm:"primaryKey;size:128" json:"id"`
	Email       string    `gorm:"not null;size:255" json:"email"`
	DisplayName string    `gorm:"size:200" json:"display_name"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}
