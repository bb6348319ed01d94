package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the plan tier attached to a user account.
type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// Valid reports whether s is one of the known plan tiers.
func (s Subscription) Valid() bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	}
	return false
}

// User is the account record. Emails are stored lowercase, so the unique
// index is effectively case-insensitive. Token holds the single active
// session token and is nil while logged out. VerificationToken is nil once
// the address has been verified; a verified user never keeps one.
type User struct {
	ID                uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email             string       `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password          string       `gorm:"not null" json:"-"`
	Subscription      Subscription `gorm:"size:20;default:'starter'" json:"subscription"`
	Token             *string      `gorm:"size:512" json:"-"`
	AvatarURL         string       `gorm:"size:512" json:"avatar_url"`
	Verify            bool         `gorm:"default:false" json:"verify"`
	VerificationToken *string      `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
