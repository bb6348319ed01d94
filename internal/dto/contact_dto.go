package dto

type CreateContactRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,len=10,numeric"`
	Favorite bool   `json:"favorite"`
}

// UpdateContactRequest carries a partial update; at least one field must be
// present, which the handler checks before validation.
type UpdateContactRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=30"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,len=10,numeric"`
}

type UpdateFavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}
