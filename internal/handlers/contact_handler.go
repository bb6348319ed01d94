package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vkopaniev/contacts-api/internal/dto"
	"github.com/vkopaniev/contacts-api/internal/middleware"
	"github.com/vkopaniev/contacts-api/internal/services"
	"github.com/vkopaniev/contacts-api/internal/validation"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	contacts, err := h.contactService.List(user.ID)
	if err != nil {
		slog.Error("list contacts failed", "operation", "list_contacts", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(contacts)
}

func (h *ContactHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return contactNotFound(c)
	}

	contact, err := h.contactService.Get(user.ID, id)
	if err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			return contactNotFound(c)
		}
		slog.Error("get contact failed", "operation", "get_contact", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(contact)
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.CreateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	contact, err := h.contactService.Create(user.ID, &req)
	if err != nil {
		slog.Error("create contact failed", "operation", "create_contact", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *ContactHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return contactNotFound(c)
	}

	var req dto.UpdateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		return badRequest(c, "Body must have at least one field")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	contact, err := h.contactService.Update(user.ID, id, &req)
	if err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			return contactNotFound(c)
		}
		slog.Error("update contact failed", "operation", "update_contact", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(contact)
}

func (h *ContactHandler) UpdateFavorite(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return contactNotFound(c)
	}

	var req dto.UpdateFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	contact, err := h.contactService.UpdateFavorite(user.ID, id, *req.Favorite)
	if err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			return contactNotFound(c)
		}
		slog.Error("update favorite failed", "operation", "update_favorite", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.JSON(contact)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return contactNotFound(c)
	}

	if err := h.contactService.Delete(user.ID, id); err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			return contactNotFound(c)
		}
		slog.Error("delete contact failed", "operation", "delete_contact", "email", user.Email, "error", err.Error())
		return internalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func contactNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Contact not found",
	})
}
