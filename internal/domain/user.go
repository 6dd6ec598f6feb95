package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID           string        `gorm:"type:varchar(36);primaryKey" json:"id"`                  // Primary key (UUID)
	Email        string        `gorm:"size:255;uniqueIndex;not null" json:"email"`             // Unique email, case-sensitive
	PasswordHash string        `gorm:"column:password_hash;not null" json:"-"`                 // bcrypt digest, never serialized
	FirstName    string        `gorm:"size:100" json:"first_name"`                             // Optional display name
	LastName     string        `gorm:"size:100" json:"last_name"`                              // Optional display name
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`                       // Creation timestamp
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`                       // Last update timestamp
	Transactions []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-many relationship with Transaction
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
