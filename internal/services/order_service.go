package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderEventPublisher publishes order lifecycle events to the message broker.
type OrderEventPublisher interface {
	PublishJSON(routingKey string, payload interface{}) error
}

// OrderItemRequest is one requested product/quantity pair.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest is the client-submitted order. There is deliberately no
// price field anywhere in it: prices are always read from the product store
// inside the transaction.
type PlaceOrderRequest struct {
	Description string             `json:"description" validate:"omitempty,max=500"`
	Products    []OrderItemRequest `json:"products" validate:"required,min=1,dive"`
}

// OrderResponse is the external shape of an order. Field names are decoupled
// from the storage schema on purpose.
type OrderResponse struct {
	OrderID     string             `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	TotalPrice  decimal.Decimal    `json:"total_price"`
	Description string             `json:"description"`
	Products    []models.OrderItem `json:"products"`
	CreatedAt   time.Time          `json:"created_at"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	txManager   repositories.TxManager
	publisher   OrderEventPublisher // optional, may be nil
	validate    *validator.Validate
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	txManager repositories.TxManager,
	publisher OrderEventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

// PlaceOrder turns a client-submitted order request into a committed order,
// or a fully rolled-back failure. Inside one transaction it validates and
// prices every line item first, then decrements stock for all of them, then
// persists the order; stock is never decremented for an order that fails on
// a later item.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationMessage(err))
	}

	var order *models.Order
	err := s.txManager.RunInTransaction(ctx, func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Products))

		// Validate and price every requested item, in client-supplied order.
		// Duplicate product ids are processed independently, not merged.
		for _, it := range req.Products {
			product, err := s.productRepo.GetByIDTx(tx, it.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("%w: product with ID %s does not exist", ErrProductNotFound, it.ProductID)
				}
				return fmt.Errorf("failed to look up product %s: %w", it.ProductID, err)
			}

			if product.Stock < it.Quantity {
				return fmt.Errorf("%w: product %q has %d in stock, %d requested",
					ErrInsufficientStock, product.Name, product.Stock, it.Quantity)
			}

			itemTotal := product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			total = total.Add(itemTotal)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  it.Quantity,
				ItemTotal: itemTotal,
			})
		}

		// All items priced; now take the stock. The conditional decrement
		// re-checks availability atomically, so a race with a concurrent
		// order shows up here as a failed decrement and rolls everything
		// back.
		for _, item := range items {
			ok, err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, err)
			}
			if !ok {
				return fmt.Errorf("%w: not enough stock left for product %q",
					ErrInsufficientStock, item.Name)
			}
		}

		description := strings.TrimSpace(req.Description)
		if description == "" {
			description = describeItems(items)
		}

		order = &models.Order{
			OrderID:     uuid.New().String(),
			UserID:      userID,
			Description: description,
			TotalPrice:  total.Round(2),
			Status:      models.OrderStatusPending,
			Items:       items,
		}
		return s.orderRepo.Create(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", map[string]interface{}{
		"orderID": order.OrderID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalPrice,
	})

	resp := toOrderResponse(order)
	return &resp, nil
}

// ListOrdersForUser returns all orders owned by userID in the external
// shape, newest first. An empty list is a normal result, not an error.
func (s *OrderService) ListOrdersForUser(userID string) ([]OrderResponse, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	return responses, nil
}

// GetOrderForUser returns one order by its public id, only if userID owns
// it. An order owned by someone else reads as not found.
func (s *OrderService) GetOrderForUser(userID, orderID string) (*OrderResponse, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, repositories.ErrNotFound)
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// UpdateOrderStatus moves an order to a new lifecycle state.
func (s *OrderService) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: invalid order status %q", ErrValidation, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return err
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"orderID": orderID,
		"status":  status,
	})
	return nil
}

// publishEvent sends an order event to the broker. Publishing is best-effort
// and never fails the request.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(routingKey, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// describeItems builds a human-readable description from the line items,
// e.g. "Order for 2x Widget, 1x Gadget".
func describeItems(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return "Order for " + strings.Join(parts, ", ")
}

func toOrderResponse(order *models.Order) OrderResponse {
	return OrderResponse{
		OrderID:     order.OrderID,
		Status:      order.Status,
		TotalPrice:  order.TotalPrice,
		Description: order.Description,
		Products:    order.Items,
		CreatedAt:   order.CreatedAt,
	}
}

// validationMessage flattens validator errors into a readable summary.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
