package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vkopaniev/contacts-api/internal/models"
	"gorm.io/gorm"
)

// GormContactStore implements ContactStore on top of a GORM connection.
type GormContactStore struct {
	db *gorm.DB
}

func NewGormContactStore(db *gorm.DB) *GormContactStore {
	return &GormContactStore{db: db}
}

func (s *GormContactStore) ListByOwner(ownerID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *GormContactStore) FindByID(ownerID, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &contact, nil
}

func (s *GormContactStore) Create(contact *models.Contact) error {
	if err := s.db.Create(contact).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (s *GormContactStore) Save(contact *models.Contact) error {
	if err := s.db.Save(contact).Error; err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

func (s *GormContactStore) Delete(ownerID, id uuid.UUID) error {
	result := s.db.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&models.Contact{})
	if result.Error != nil {
		return fmt.Errorf("delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
