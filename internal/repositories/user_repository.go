package repositories

import "shopapi/internal/models"

// Identifier columns accepted by UserRepository.Exists.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPhone    = "phone_number"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	// FindByIdentifier resolves a login identifier against username, email
	// and phone number in one lookup. Returns ErrNotFound on no match.
	FindByIdentifier(identifier string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Exists(field, value string) (bool, error)
}
