package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storeapi/internal/models"
	"storeapi/internal/services"
)

// ProductHandler handles HTTP requests for products. It only translates
// between HTTP and the service: request bodies into schema objects, service
// outcomes into status codes. Error bodies use a "detail" field.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// The price_range route must be registered before /:id so the literal
// segment is not captured as an id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/price_range", h.HandleGetProductsByPriceRange)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product and responds 201 with the
// stored document. Store failures map to a generic 500; the raw error text
// is logged, not returned.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in models.ProductIn
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := in.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": err.Error(),
		})
	}

	product, err := h.service.CreateProduct(c.Context(), &in)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProducts lists every product. An empty catalog is still a 200
// with an empty list.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.Context())
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its id.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	product, err := h.service.GetProductByID(c.Context(), id)
	if err != nil {
		log.Printf("Error getting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve product",
		})
	}
	if product == nil {
		return h.notFound(c, id)
	}
	return c.JSON(product)
}

// HandleUpdateProduct partially updates a product; only fields present in
// the body are changed.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	var patch models.ProductUpdate
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	product, err := h.service.UpdateProduct(c.Context(), id, &patch)
	if err != nil {
		log.Printf("Error updating product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not update product",
		})
	}
	if product == nil {
		return h.notFound(c, id)
	}
	return c.JSON(product)
}

// HandleDeleteProduct hard-deletes a product, responding 204 on success.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return nil
	}

	deleted, err := h.service.DeleteProduct(c.Context(), id)
	if err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not delete product",
		})
	}
	if !deleted {
		return h.notFound(c, id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetProductsByPriceRange lists products whose price falls within the
// optional, inclusive min_price/max_price query bounds.
func (h *ProductHandler) HandleGetProductsByPriceRange(c *fiber.Ctx) error {
	minPrice, ok := h.parsePriceParam(c, "min_price")
	if !ok {
		return nil
	}
	maxPrice, ok := h.parsePriceParam(c, "max_price")
	if !ok {
		return nil
	}

	products, err := h.service.GetProductsByPriceRange(c.Context(), minPrice, maxPrice)
	if err != nil {
		log.Printf("Error getting products by price range: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// parseID validates the :id path parameter as a UUID. On failure it writes
// the 400 response itself and returns ok=false.
func (h *ProductHandler) parseID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": fmt.Sprintf("Invalid product id: %s", id),
		})
		return "", false
	}
	return id, true
}

// parsePriceParam reads an optional float query parameter. A missing
// parameter yields (nil, true); an unparseable one writes the 400 response
// and returns ok=false.
func (h *ProductHandler) parsePriceParam(c *fiber.Ctx, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": fmt.Sprintf("Invalid %s: %s", name, raw),
		})
		return nil, false
	}
	return &value, true
}

func (h *ProductHandler) notFound(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"detail": fmt.Sprintf("Product not found with id: %s", id),
	})
}
