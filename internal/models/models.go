package models

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Account moderation states
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
	StatusDeleted  = "DELETED"
)

// Roles carried in access tokens
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Address is embedded into User with an address_ column prefix
type Address struct {
	Street  string `json:"street"`
	Number  string `json:"number,omitempty"`
	Zipcode string `json:"zipcode"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// User represents a storefront account
type User struct {
	BaseModel
	FirstName    string   `json:"firstName" gorm:"not null"`
	LastName     string   `json:"lastName" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Gender       string   `json:"gender,omitempty"`
	DateOfBirth  string   `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Address      Address  `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Status       string   `json:"status" gorm:"not null;default:PENDING"`
	Roles        []string `json:"roles" gorm:"serializer:json"`
}

// HasRole reports whether the user holds role (case-insensitive)
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// CanLogin reports whether the moderation status still allows sign-in
func (u *User) CanLogin() bool {
	return u.Status != StatusRejected && u.Status != StatusDeleted
}

// Product represents a catalogue entry
type Product struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Currency    string    `json:"currency" gorm:"type:varchar(3);not null;default:EUR"`
	Category    string    `json:"category" gorm:"index;not null;default:OTHER"`
	ImageURLs   []string  `json:"imageUrls" gorm:"serializer:json"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	Status      string    `json:"status" gorm:"not null;default:ACTIVE"`
	OwnerID     string    `json:"ownerId" gorm:"type:varchar(26);index"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// RefreshToken is an opaque long-lived credential issued at login
type RefreshToken struct {
	BaseModel
	UserID string `json:"-" gorm:"type:varchar(26);index;not null"`
	Token  string `json:"-" gorm:"uniqueIndex;not null"`
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Product{}, &RefreshToken{})
}
