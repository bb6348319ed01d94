package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkopaniev/contacts-api/internal/dto"
)

func TestStruct_RegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr string
	}{
		{"valid", dto.RegisterRequest{Email: "a@x.com", Password: "secret1"}, ""},
		{"missing email", dto.RegisterRequest{Password: "secret1"}, "email is required"},
		{"bad email", dto.RegisterRequest{Email: "not-an-email", Password: "secret1"}, "email must be a valid email address"},
		{"missing password", dto.RegisterRequest{Email: "a@x.com"}, "password is required"},
		{"short password", dto.RegisterRequest{Email: "a@x.com", Password: "abc"}, "password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestStruct_ResendVerifyRequest(t *testing.T) {
	assert.EqualError(t, Struct(&dto.ResendVerifyRequest{}), "email is required")
	assert.NoError(t, Struct(&dto.ResendVerifyRequest{Email: "a@x.com"}))
}

func TestStruct_CreateContactRequest(t *testing.T) {
	valid := dto.CreateContactRequest{Name: "Alice Smith", Email: "alice@x.com", Phone: "0501234567"}
	assert.NoError(t, Struct(&valid))

	shortName := valid
	shortName.Name = "Al"
	assert.EqualError(t, Struct(&shortName), "name must be at least 3 characters")

	badPhone := valid
	badPhone.Phone = "12345"
	assert.EqualError(t, Struct(&badPhone), "phone must be exactly 10 characters")

	alphaPhone := valid
	alphaPhone.Phone = "05012345ab"
	assert.EqualError(t, Struct(&alphaPhone), "phone must contain only digits")
}

func TestStruct_JoinsMultipleFieldErrors(t *testing.T) {
	err := Struct(&dto.RegisterRequest{})
	assert.EqualError(t, err, "email is required; password is required")
}
