package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vkopaniev/contacts-api/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an insert hits the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserStore is the persistence collaborator for user records.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	FindByVerificationToken(token string) (*models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

// ContactStore is the persistence collaborator for contact records. All
// lookups are scoped to the owning user.
type ContactStore interface {
	ListByOwner(ownerID uuid.UUID) ([]models.Contact, error)
	FindByID(ownerID, id uuid.UUID) (*models.Contact, error)
	Create(contact *models.Contact) error
	Save(contact *models.Contact) error
	Delete(ownerID, id uuid.UUID) error
}
