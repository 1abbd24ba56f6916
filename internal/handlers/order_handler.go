package handlers

import (
	"fmt"
	"log"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/middleware"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/services"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Patch("/:id/status", middleware.AdminRequired(), h.HandleUpdateOrderStatus)
}

// HandlePlaceOrder places a new order for the authenticated user.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Validation failed", "invalid request body: "+err.Error())
	}

	order, err := h.service.PlaceOrder(c.UserContext(), userID, &req)
	if err != nil {
		log.Printf("Error placing order for user %s: %v", userID, err)
		return respondError(c, err, "Could not place order")
	}

	return respondOK(c, fiber.StatusCreated, "Order placed successfully", order)
}

// HandleListOrders retrieves the authenticated user's orders, newest first.
// A user with no orders gets an empty list, not an error.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	orders, err := h.service.ListOrdersForUser(userID)
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return respondError(c, err, "Could not retrieve orders")
	}

	message := fmt.Sprintf("Found %d orders", len(orders))
	if len(orders) == 0 {
		message = "No orders found for this user"
	}
	return respondOK(c, fiber.StatusOK, message, orders)
}

// HandleGetOrderByID retrieves one of the authenticated user's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	orderID := c.Params("id")
	order, err := h.service.GetOrderForUser(userID, orderID)
	if err != nil {
		log.Printf("Error getting order %s for user %s: %v", orderID, userID, err)
		return respondError(c, err, "Could not retrieve order")
	}
	return respondOK(c, fiber.StatusOK, "Order retrieved successfully", order)
}

// HandleUpdateOrderStatus updates the status of an existing order (admin).
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Validation failed", "invalid request body: "+err.Error())
	}

	if updateData.Status == "" {
		return respondFail(c, fiber.StatusBadRequest, "Validation failed", "status is required")
	}

	if err := h.service.UpdateOrderStatus(orderID, models.OrderStatus(updateData.Status)); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err, "Could not update order status")
	}

	return respondOK(c, fiber.StatusOK,
		fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status), nil)
}
