package handlers

import (
	"log"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/middleware"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads are
// open to any authenticated user; writes are admin-only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", middleware.AdminRequired(), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.AdminRequired(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, err, "Could not retrieve products")
	}
	return respondOK(c, fiber.StatusOK, "Products retrieved successfully", products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return respondError(c, err, "Could not retrieve product")
	}
	return respondOK(c, fiber.StatusOK, "Product retrieved successfully", product)
}

// HandleCreateProduct creates a new product owned by the requesting admin.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return respondFail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Validation failed", "invalid request body: "+err.Error())
	}

	if err := h.service.CreateProduct(adminID, &product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err, "Could not create product")
	}
	return respondOK(c, fiber.StatusCreated, "Product created successfully", product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Validation failed", "invalid request body: "+err.Error())
	}
	product.ID = productID

	if err := h.service.UpdateProduct(&product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return respondError(c, err, "Could not update product")
	}
	return respondOK(c, fiber.StatusOK, "Product updated successfully", product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return respondError(c, err, "Could not delete product")
	}
	return respondOK(c, fiber.StatusOK, "Product deleted successfully", nil)
}
