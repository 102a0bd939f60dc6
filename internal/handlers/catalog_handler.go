package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
)

// CatalogHandler handles the public, read-only catalog endpoints.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

// HandleListCategories returns all categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		logrus.WithError(err).Error("failed to list categories")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve categories",
		})
	}
	return c.JSON(categories)
}

// HandleGetCategory returns a single category by ID.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	category, err := h.catalogService.GetCategory(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		logrus.WithError(err).Error("failed to get category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve category",
		})
	}
	return c.JSON(category)
}

// paginatedResponse is the page envelope for product listings.
type paginatedResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// HandleListProducts returns one page of active products, optionally filtered
// by category, searched by name/description substring and ordered by price,
// name or creation time.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	query := repositories.ProductQuery{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     c.QueryInt("page", 1),
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if raw := c.Query("category"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": map[string]string{"category": "Invalid category id."},
			})
		}
		query.CategoryID = &id
	}

	products, total, err := h.catalogService.ListProducts(query)
	if err != nil {
		logrus.WithError(err).Error("failed to list products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve products",
		})
	}

	results := make([]models.ProductSummary, 0, len(products))
	for i := range products {
		results = append(results, products[i].Summary())
	}

	resp := paginatedResponse{
		Count:   total,
		Results: results,
	}
	if int64(query.Page*repositories.PageSize) < total {
		resp.Next = pageLink(c, query.Page+1)
	}
	if query.Page > 1 {
		resp.Previous = pageLink(c, query.Page-1)
	}
	return c.JSON(resp)
}

// HandleGetProduct returns a single active product by ID.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		logrus.WithError(err).Error("failed to get product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve product",
		})
	}
	return c.JSON(product.Detail())
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"detail": "Not found.",
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// pageLink rebuilds the request URL with the page parameter replaced. Page 1
// links omit the parameter, matching the canonical first-page URL.
func pageLink(c *fiber.Ctx, page int) *string {
	values := url.Values{}
	for k, v := range c.Queries() {
		values.Set(k, v)
	}
	if page <= 1 {
		values.Del("page")
	} else {
		values.Set("page", strconv.Itoa(page))
	}
	link := c.BaseURL() + c.Path()
	if encoded := values.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return &link
}
