package services

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vkopaniev/contacts-api/internal/config"
	"github.com/vkopaniev/contacts-api/internal/dto"
	"github.com/vkopaniev/contacts-api/internal/mail"
	"github.com/vkopaniev/contacts-api/internal/models"
	"github.com/vkopaniev/contacts-api/internal/storage"
	"github.com/vkopaniev/contacts-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users  store.UserStore
	mailer mail.Sender
	mover  storage.FileMover
	cfg    *config.Config
}

func NewAuthService(users store.UserStore, mailer mail.Sender, mover storage.FileMover, cfg *config.Config) *AuthService {
	return &AuthService{users: users, mailer: mailer, mover: mover, cfg: cfg}
}

// Register creates an unverified account and dispatches the verification
// email. The unique email index is the authoritative duplicate guard; a
// constraint violation from a concurrent registration surfaces as
// ErrEmailInUse just like the pre-insert check.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := CanonicalEmail(req.Email)

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := generateToken()
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:                uuid.New(),
		Email:             email,
		Password:          string(hash),
		Subscription:      models.SubscriptionStarter,
		AvatarURL:         GravatarURL(email),
		VerificationToken: &verificationToken,
	}

	if err := s.users.Create(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	// Sending is a side effect only; a mail outage must not roll back the
	// registration. The resend endpoint covers delivery failures.
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, verificationToken); err != nil {
		slog.Error("verification email dispatch failed", "operation", "register", "email", user.Email, "error", err.Error())
	}

	return &dto.RegisterResponse{User: publicUser(&user)}, nil
}

// Login checks credentials and issues a fresh session token. Unknown email
// and wrong password return the same error so accounts cannot be enumerated.
// Issuing a new token overwrites any previous one: one active session per
// user.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(CanonicalEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Verify {
		return nil, ErrNotVerified
	}

	token, err := s.signSessionToken(user)
	if err != nil {
		return nil, err
	}

	user.Token = &token
	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	}, nil
}

// Logout clears the stored session token. Always succeeds for an
// authenticated caller, even if called twice.
func (s *AuthService) Logout(user *models.User) error {
	user.Token = nil
	return s.users.Save(user)
}

// Current returns the authenticated caller's public fields.
func (s *AuthService) Current(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		Email:        user.Email,
		Subscription: user.Subscription,
	}
}

// VerifyEmail consumes a verification token. The transition is one-way:
// the token is cleared on success, so a second call with the same token
// fails with ErrUserNotFound because the token no longer exists anywhere.
func (s *AuthService) VerifyEmail(token string) error {
	user, err := s.users.FindByVerificationToken(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.VerificationToken = nil
	user.Verify = true
	return s.users.Save(user)
}

// ResendVerification re-dispatches the verification email with the token
// already stored for the account. Tokens are not rotated on resend.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(CanonicalEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Verify || user.VerificationToken == nil {
		return ErrAlreadyVerified
	}

	return s.mailer.SendVerificationEmail(ctx, user.Email, *user.VerificationToken)
}

// UpdateAvatar moves a staged upload into permanent storage and persists the
// public URL. The move happens first: a crash after the move leaves an
// unreferenced file, which is recoverable, whereas persisting first could
// leave a URL pointing at nothing.
func (s *AuthService) UpdateAvatar(user *models.User, tempPath, originalName string) (string, error) {
	filename := fmt.Sprintf("%s-%s", user.ID, storage.SanitizeFilename(originalName))
	finalPath := filepath.Join(s.cfg.AvatarsDir, filename)

	if err := s.mover.Move(tempPath, finalPath); err != nil {
		slog.Error("avatar move failed", "operation", "update_avatar", "email", user.Email, "error", err.Error())
		if rmErr := s.mover.Remove(tempPath); rmErr != nil {
			slog.Error("orphaned temp file cleanup failed", "operation", "update_avatar", "error", rmErr.Error())
		}
		return "", ErrStorage
	}

	avatarURL := "/avatars/" + filename
	user.AvatarURL = avatarURL
	if err := s.users.Save(user); err != nil {
		return "", err
	}

	return avatarURL, nil
}

func (s *AuthService) signSessionToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":  user.ID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func publicUser(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		Email:        user.Email,
		Subscription: user.Subscription,
		AvatarURL:    user.AvatarURL,
	}
}

// CanonicalEmail lowercases and trims an address. Every lookup and insert
// goes through this, which makes email uniqueness case-insensitive.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL derives the default avatar from the canonical email hash.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(CanonicalEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=250&d=retro", sum)
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
