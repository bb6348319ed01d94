package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/vkopaniev/contacts-api/internal/config"
	"github.com/vkopaniev/contacts-api/internal/dto"
	"github.com/vkopaniev/contacts-api/internal/middleware"
	"github.com/vkopaniev/contacts-api/internal/services"
	"github.com/vkopaniev/contacts-api/internal/storage"
	"github.com/vkopaniev/contacts-api/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailInUse) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Email in use",
			})
		}
		slog.Error("registration failed", "operation", "register", "email", req.Email, "error", err.Error())
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Email or password is wrong",
			})
		case errors.Is(err, services.ErrNotVerified):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Email not verified",
			})
		}
		slog.Error("login failed", "operation", "login", "email", req.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("verificationToken")

	if err := h.authService.VerifyEmail(token); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("verification failed", "operation", "verify_email", "error", err.Error())
		return internalError(c)
	}

	return c.JSON(dto.MessageResponse{Message: "Verification successful"})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.authService.ResendVerification(c.UserContext(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		case errors.Is(err, services.ErrAlreadyVerified):
			return badRequest(c, "Verification has already been passed")
		}
		slog.Error("resend verification failed", "operation", "resend_verification", "email", req.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(dto.MessageResponse{Message: "Verification email sent"})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := h.authService.Logout(user); err != nil {
		slog.Error("logout failed", "operation", "logout", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Current(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(h.authService.Current(user))
}

// UpdateAvatar receives a multipart upload, stages it in the temp dir, then
// hands off to the service to move it into permanent storage and persist
// the public URL.
func (h *AuthHandler) UpdateAvatar(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "File not provided")
	}

	tempName := fmt.Sprintf("%s-%s", user.ID, storage.SanitizeFilename(file.Filename))
	tempPath := filepath.Join(h.cfg.TempDir, tempName)
	if err := os.MkdirAll(h.cfg.TempDir, 0o755); err != nil {
		slog.Error("avatar staging failed", "operation", "update_avatar", "email", user.Email, "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Error saving avatar",
		})
	}
	if err := c.SaveFile(file, tempPath); err != nil {
		slog.Error("avatar staging failed", "operation", "update_avatar", "email", user.Email, "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Error saving avatar",
		})
	}

	avatarURL, err := h.authService.UpdateAvatar(user, tempPath, file.Filename)
	if err != nil {
		if errors.Is(err, services.ErrStorage) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Error saving avatar",
			})
		}
		slog.Error("avatar update failed", "operation", "update_avatar", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(dto.AvatarResponse{AvatarURL: avatarURL})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
