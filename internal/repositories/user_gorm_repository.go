package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shopapi/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. Unique-index violations are surfaced as
// DuplicateError naming the colliding identifier.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &DuplicateError{Field: r.collidingField(user)}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// collidingField re-probes the identifiers to name the one that caused a
// duplicate-key error. Best effort only; the unique index already rejected
// the write.
func (r *GORMUserRepository) collidingField(user *models.User) string {
	probes := []struct {
		field string
		value *string
	}{
		{FieldUsername, user.Username},
		{FieldEmail, user.Email},
		{FieldPhone, user.PhoneNumber},
	}
	for _, p := range probes {
		if p.value == nil {
			continue
		}
		if taken, err := r.Exists(p.field, *p.value); err == nil && taken {
			return p.field
		}
	}
	return FieldUsername
}

// FindByIdentifier looks up a user whose username, email or phone number
// equals the identifier, in a single query. When the value could match more
// than one field the precedence is username, then email, then phone number.
func (r *GORMUserRepository) FindByIdentifier(identifier string) (*models.User, error) {
	var users []models.User
	err := r.db.
		Where("username = ? OR email = ? OR phone_number = ?", identifier, identifier, identifier).
		Limit(3).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up identifier: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	matchers := []func(u *models.User) bool{
		func(u *models.User) bool { return u.Username != nil && *u.Username == identifier },
		func(u *models.User) bool { return u.Email != nil && *u.Email == identifier },
		func(u *models.User) bool { return u.PhoneNumber != nil && *u.PhoneNumber == identifier },
	}
	for _, match := range matchers {
		for i := range users {
			if match(&users[i]) {
				return &users[i], nil
			}
		}
	}
	return &users[0], nil
}

// FindByID retrieves a user by primary key.
func (r *GORMUserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// Exists reports whether any user already holds the given identifier value.
func (r *GORMUserRepository) Exists(field, value string) (bool, error) {
	switch field {
	case FieldUsername, FieldEmail, FieldPhone:
	default:
		return false, fmt.Errorf("unknown identifier field %q", field)
	}
	var count int64
	if err := r.db.Model(&models.User{}).Where(field+" = ?", value).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s uniqueness: %w", field, err)
	}
	return count > 0, nil
}
