package repositories

import "shopapi/internal/models"

// PageSize is the fixed number of products per listing page.
const PageSize = 10

// DefaultOrdering sorts listings newest first when no ordering is requested.
const DefaultOrdering = "-created_at"

// ProductQuery narrows a product listing. Zero values leave the corresponding
// dimension unconstrained. Page is 1-based.
type ProductQuery struct {
	CategoryID *uint
	Search     string
	Ordering   string
	Page       int
}

// ProductRepository defines the interface for catalog product access. All
// reads are restricted to active products.
type ProductRepository interface {
	// List returns one page of matching products plus the total match count.
	List(q ProductQuery) ([]models.Product, int64, error)
	GetActiveByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
}
