package repositories

import (
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists a fully-formed order (with its line items) inside the
	// given transaction, assigning the public order id and timestamps.
	Create(tx *gorm.DB, order *models.Order) error

	// GetByUser returns all orders owned by userID, newest first.
	GetByUser(userID string) ([]models.Order, error)

	// GetByID looks an order up by its public order id.
	GetByID(orderID string) (*models.Order, error)

	UpdateStatus(orderID string, status models.OrderStatus) error
}
