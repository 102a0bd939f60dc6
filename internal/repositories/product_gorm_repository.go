package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shopapi/internal/models"
)

// orderings maps client ordering keys to SQL order clauses. Unknown keys fall
// back to DefaultOrdering.
var orderings = map[string]string{
	"price":       "price",
	"-price":      "price DESC",
	"name":        "name",
	"-name":       "name DESC",
	"created_at":  "created_at",
	"-created_at": "created_at DESC",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List returns one page of active products matching the query, together with
// the total number of matches across all pages.
func (r *GORMProductRepository) List(q ProductQuery) ([]models.Product, int64, error) {
	tx := r.db.Model(&models.Product{}).Where("is_active = ?", true)
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	order, ok := orderings[q.Ordering]
	if !ok {
		order = orderings[DefaultOrdering]
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	var products []models.Product
	err := tx.Order(order).
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetActiveByID retrieves an active product by its ID. Inactive products are
// reported as ErrNotFound, same as missing ones.
func (r *GORMProductRepository) GetActiveByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").
		First(&product, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product. Used by seeding and tests; the public API
// surface is read-only.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}
