package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money fields serialize as plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the store.
// ID is the public identifier handed out to clients; it is assigned at
// creation and is not the storage engine's internal row key.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"-"` // non-negativity checked in the service

	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	AdminID     string          `json:"admin_id" gorm:"type:varchar(36)" validate:"-"` // set from the JWT, never client input
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
