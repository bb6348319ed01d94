package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vkopaniev/contacts-api/internal/dto"
	"github.com/vkopaniev/contacts-api/internal/models"
	"github.com/vkopaniev/contacts-api/internal/store"
)

type ContactService struct {
	contacts store.ContactStore
}

func NewContactService(contacts store.ContactStore) *ContactService {
	return &ContactService{contacts: contacts}
}

func (s *ContactService) List(ownerID uuid.UUID) ([]models.Contact, error) {
	return s.contacts.ListByOwner(ownerID)
}

func (s *ContactService) Get(ownerID, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contacts.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Create(ownerID uuid.UUID, req *dto.CreateContactRequest) (*models.Contact, error) {
	contact := models.Contact{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	}
	if err := s.contacts.Create(&contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ContactService) Update(ownerID, id uuid.UUID, req *dto.UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}

	if err := s.contacts.Save(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) UpdateFavorite(ownerID, id uuid.UUID, favorite bool) (*models.Contact, error) {
	contact, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	contact.Favorite = favorite
	if err := s.contacts.Save(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) Delete(ownerID, id uuid.UUID) error {
	if err := s.contacts.Delete(ownerID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	return nil
}
