package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a phonebook entry owned by a single user.
type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Email     string    `gorm:"not null;size:255" json:"email"`
	Phone     string    `gorm:"not null;size:20" json:"phone"`
	Favorite  bool      `gorm:"default:false" json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
