package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkopaniev/contacts-api/internal/config"
	"github.com/vkopaniev/contacts-api/internal/handlers"
	"github.com/vkopaniev/contacts-api/internal/models"
	"github.com/vkopaniev/contacts-api/internal/routes"
	"github.com/vkopaniev/contacts-api/internal/services"
	"github.com/vkopaniev/contacts-api/internal/storage"
	"github.com/vkopaniev/contacts-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type memUserStore struct {
	byID map[uuid.UUID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[uuid.UUID]*models.User)}
}

func (m *memUserStore) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) FindByVerificationToken(token string) (*models.User, error) {
	for _, u := range m.byID {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) Create(user *models.User) error {
	if _, err := m.FindByEmail(user.Email); err == nil {
		return store.ErrDuplicateEmail
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memUserStore) Save(user *models.User) error {
	m.byID[user.ID] = user
	return nil
}

type memMailer struct {
	tokens []string
}

func (m *memMailer) SendVerificationEmail(_ context.Context, _, token string) error {
	m.tokens = append(m.tokens, token)
	return nil
}

type testEnv struct {
	app    *fiber.App
	users  *memUserStore
	mailer *memMailer
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
		TempDir:    filepath.Join(dir, "tmp"),
		AvatarsDir: filepath.Join(dir, "avatars"),
	}

	users := newMemUserStore()
	mailer := &memMailer{}
	authService := services.NewAuthService(users, mailer, storage.OSFileMover{}, cfg)
	contactService := services.NewContactService(newMemContactStore())

	app := fiber.New()
	routes.Setup(app, cfg, users,
		handlers.NewAuthHandler(authService, cfg),
		handlers.NewContactHandler(contactService),
		handlers.NewHealthHandler(),
	)

	return &testEnv{app: app, users: users, mailer: mailer, cfg: cfg}
}

type memContactStore struct {
	contacts map[uuid.UUID]*models.Contact
}

func newMemContactStore() *memContactStore {
	return &memContactStore{contacts: make(map[uuid.UUID]*models.Contact)}
}

func (m *memContactStore) ListByOwner(ownerID uuid.UUID) ([]models.Contact, error) {
	var out []models.Contact
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memContactStore) FindByID(ownerID, id uuid.UUID) (*models.Contact, error) {
	if c, ok := m.contacts[id]; ok && c.OwnerID == ownerID {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (m *memContactStore) Create(contact *models.Contact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *memContactStore) Save(contact *models.Contact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *memContactStore) Delete(ownerID, id uuid.UUID) error {
	if c, ok := m.contacts[id]; ok && c.OwnerID == ownerID {
		delete(m.contacts, id)
		return nil
	}
	return store.ErrNotFound
}

func (e *testEnv) request(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuthFlow_RegisterVerifyLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	// Register
	resp := env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "starter", user["subscription"])
	assert.Contains(t, user["avatar_url"], "gravatar.com")

	stored, err := env.users.FindByEmail("a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	assert.False(t, stored.Verify)
	require.Len(t, env.mailer.tokens, 1)

	// Login before verification fails
	resp = env.request(t, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Verify
	verifyToken := *stored.VerificationToken
	resp = env.request(t, http.MethodGet, "/api/auth/verify/"+verifyToken, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, stored.Verify)
	assert.Nil(t, stored.VerificationToken)

	// Repeated verify with the consumed token fails
	resp = env.request(t, http.MethodGet, "/api/auth/verify/"+verifyToken, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Login
	resp = env.request(t, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionToken := decode(t, resp)["token"].(string)
	require.NotEmpty(t, sessionToken)

	// Current
	resp = env.request(t, http.MethodGet, "/api/auth/current", "", sessionToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	current := decode(t, resp)
	assert.Equal(t, "a@x.com", current["email"])
	assert.Equal(t, "starter", current["subscription"])

	// Logout
	resp = env.request(t, http.MethodPost, "/api/auth/logout", "", sessionToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, stored.Token)

	// Old token is rejected after logout
	resp = env.request(t, http.MethodGet, "/api/auth/current", "", sessionToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"other66"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email in use", decode(t, resp)["message"])
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/register", `{"email":"bad","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"abc"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResendVerification_Statuses(t *testing.T) {
	env := newTestEnv(t)

	// Missing email field
	resp := env.request(t, http.MethodPost, "/api/auth/verify", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown email
	resp = env.request(t, http.MethodPost, "/api/auth/verify", `{"email":"nobody@x.com"}`, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Pending account: resend reuses the original token
	resp = env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/verify", `{"email":"a@x.com"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.mailer.tokens, 2)
	assert.Equal(t, env.mailer.tokens[0], env.mailer.tokens[1])

	// Verified account
	stored, err := env.users.FindByEmail("a@x.com")
	require.NoError(t, err)
	resp = env.request(t, http.MethodGet, "/api/auth/verify/"+*stored.VerificationToken, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/verify", `{"email":"a@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Verification has already been passed", decode(t, resp)["message"])
}

func registerAndLogin(t *testing.T, env *testEnv) string {
	t.Helper()
	resp := env.request(t, http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	stored, err := env.users.FindByEmail("a@x.com")
	require.NoError(t, err)
	resp = env.request(t, http.MethodGet, "/api/auth/verify/"+*stored.VerificationToken, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode(t, resp)["token"].(string)
}

func TestUpdateAvatar_Flow(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)

	// No file attached
	resp := env.request(t, http.MethodPatch, "/api/auth/avatars", "", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Multipart upload
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/avatars", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	avatarURL := decode(t, resp)["avatar_url"].(string)
	assert.True(t, strings.HasPrefix(avatarURL, "/avatars/"), avatarURL)
	assert.True(t, strings.HasSuffix(avatarURL, "-me.png"), avatarURL)

	// File landed in permanent storage and the URL was persisted
	stored, err := env.users.FindByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, avatarURL, stored.AvatarURL)

	data, err := os.ReadFile(filepath.Join(env.cfg.AvatarsDir, strings.TrimPrefix(avatarURL, "/avatars/")))
	require.NoError(t, err)
	assert.Equal(t, "fake-image-bytes", string(data))

	// Temp staging dir holds no leftover file
	entries, err := os.ReadDir(env.cfg.TempDir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestContacts_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/contacts/", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestContacts_CRUDFlow(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)

	// Create
	resp := env.request(t, http.MethodPost, "/api/contacts/", `{"name":"Alice Smith","email":"alice@x.com","phone":"0501234567"}`, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	id := created["id"].(string)

	// Validation
	resp = env.request(t, http.MethodPost, "/api/contacts/", `{"name":"Al","email":"alice@x.com","phone":"0501234567"}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// List
	resp = env.request(t, http.MethodGet, "/api/contacts/", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Update
	resp = env.request(t, http.MethodPut, "/api/contacts/"+id, `{"phone":"0679876543"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0679876543", decode(t, resp)["phone"])

	// Empty update body
	resp = env.request(t, http.MethodPut, "/api/contacts/"+id, `{}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Favorite
	resp = env.request(t, http.MethodPatch, "/api/contacts/"+id+"/favorite", `{"favorite":true}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["favorite"])

	// Delete
	resp = env.request(t, http.MethodDelete, "/api/contacts/"+id, "", token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/contacts/"+id, "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
