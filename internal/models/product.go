package models

import "time"

// Product represents an item in the store. Only active products are exposed
// through the public catalog.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(150);not null" validate:"required,min=3,max=150"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2)" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CategoryID  *uint     `json:"category_id"`
	Category    *Category `json:"-"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryName returns the owning category's name, or "" when uncategorized.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// ProductSummary is the listing projection of a Product.
type ProductSummary struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price"`
}

// ProductDetail is the single-item projection of a Product.
type ProductDetail struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	CategoryName string    `json:"category_name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary returns the listing projection.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:           p.ID,
		Name:         p.Name,
		CategoryName: p.CategoryName(),
		Price:        p.Price,
	}
}

// Detail returns the single-item projection.
func (p *Product) Detail() ProductDetail {
	return ProductDetail{
		ID:           p.ID,
		Name:         p.Name,
		CategoryName: p.CategoryName(),
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		UpdatedAt:    p.UpdatedAt,
	}
}
