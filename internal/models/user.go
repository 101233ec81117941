package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID         uint   `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username       string `gorm:"uniqueIndex;not null" json:"username"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"not null" json:"-"`
	Disabled       bool   `gorm:"default:false" json:"disabled"`
	Verified       bool   `gorm:"default:false" json:"verified"`
	Role           string `gorm:"default:user" json:"role"`

	// Delivery contact fields; all must be present before an order
	// can be placed.
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	PhoneNumber   string `json:"phone_number"`

	VerificationToken string    `gorm:"index" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=15"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=16"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries a partial profile update; nil fields are
// left untouched.
type UpdateProfileRequest struct {
	FirstName     *string `json:"first_name"`
	SecondName    *string `json:"second_name"`
	StreetAddress *string `json:"street_address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	PhoneNumber   *string `json:"phone_number"`
}
