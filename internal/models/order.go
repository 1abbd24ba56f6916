package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known lifecycle state.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of one product line at the moment the order was
// placed. Name and Price are copied from the product so later catalog edits
// never rewrite order history.
type OrderItem struct {
	ID        uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderKey  uint            `json:"-" gorm:"index"`
	ProductID string          `json:"productId" gorm:"type:varchar(36)"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"` // unit price at order time
	Quantity  int             `json:"quantity"`
	ItemTotal decimal.Decimal `json:"itemTotal" gorm:"type:numeric(12,2)"`
}

// Order represents a customer order.
// ID is the internal storage key; OrderID is the public identifier clients
// see. The two must never be conflated.
type Order struct {
	ID          uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID     string          `json:"order_id" gorm:"uniqueIndex;type:varchar(36)"`
	UserID      string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Description string          `json:"description"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2)"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	Items       []OrderItem     `json:"products" gorm:"foreignKey:OrderKey;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
