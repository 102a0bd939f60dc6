package models

import "time"

// User represents an account holder. At least one of Username, Email or
// PhoneNumber must be present, and each is globally unique when set. The
// identifier fields are pointers so absent values are stored as NULL and do
// not collide on the unique indexes.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    *string   `json:"username" gorm:"uniqueIndex;type:varchar(150)"`
	Email       *string   `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PhoneNumber *string   `json:"phone_number" gorm:"uniqueIndex;type:varchar(32)"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never plaintext
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	DateJoined  time.Time `json:"date_joined"`
}

// PublicProfile is the projection of a User exposed through the API.
type PublicProfile struct {
	ID          uint      `json:"id"`
	Username    *string   `json:"username"`
	Email       *string   `json:"email"`
	PhoneNumber *string   `json:"phone_number"`
	DateJoined  time.Time `json:"date_joined"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		DateJoined:  u.DateJoined,
	}
}
