package repositories

import (
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
// Methods taking a tx handle participate in the caller's transaction when tx
// is non-nil and fall back to the base connection otherwise.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByIDTx(tx *gorm.DB, id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// DecrementStock atomically decrements stock by quantity only if the
	// current stock covers it, as a single conditional update. It returns
	// false with no effect when the condition fails; callers must treat
	// false as insufficient stock.
	DecrementStock(tx *gorm.DB, id string, quantity int) (bool, error)
}
