package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category groups products in the catalog.
type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Slug     string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	IsActive bool   `json:"is_active"`
}

// BeforeSave derives the URL slug from the category name. The slug is
// system-generated; the public catalog surface is read-only so clients can
// never set it.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
