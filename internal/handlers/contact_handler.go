package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/notify"
	"github.com/shaka3507/amanos/internal/repositories"
)

// ContactHandler handles emergency contact CRUD
type ContactHandler struct {
	contactRepository repositories.ContactRepository
	userRepository    repositories.UserRepository
	notifier          *notify.Notifier
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(
	contactRepo repositories.ContactRepository,
	userRepo repositories.UserRepository,
	notifier *notify.Notifier,
) *ContactHandler {
	return &ContactHandler{
		contactRepository: contactRepo,
		userRepository:    userRepo,
		notifier:          notifier,
	}
}

// RegisterContactRoutes registers contact-related routes
func (h *ContactHandler) RegisterContactRoutes(g *echo.Group) {
	g.GET("/contacts", h.ListContacts)
	g.POST("/contacts", h.CreateContact)
	g.PUT("/contacts/:id", h.UpdateContact)
	g.DELETE("/contacts/:id", h.DeleteContact)
}

// ListContacts returns the caller's emergency contacts, ordered by name.
func (h *ContactHandler) ListContacts(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contacts, err := h.contactRepository.GetContactsByOwner(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, contacts)
}

// CreateContact adds an emergency contact for the caller. When the
// contact's email matches an existing account the two are linked, and
// the contact receives a courtesy email either way.
func (h *ContactHandler) CreateContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact := &models.EmergencyContact{
		CreatedBy:    userID,
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		Relationship: req.Relationship,
	}
	if linked, err := h.userRepository.GetUserByEmail(contact.Email); err == nil {
		contact.AuthUserID = &linked.ID
	}

	if err := h.contactRepository.CreateContact(contact); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create contact")
	}

	ownerName := "An amanos user"
	if owner, err := h.userRepository.GetUserByID(userID); err == nil && owner.FullName != "" {
		ownerName = owner.FullName
	}
	go func() {
		if err := h.notifier.NotifyContactAdded(context.Background(), contact, ownerName); err != nil {
			slog.Error("Failed to send contact notification", "contact_id", contact.ID, "error", err)
		}
	}()

	return c.JSON(http.StatusCreated, contact)
}

// UpdateContact edits one of the caller's contacts. Fields absent from
// the request are left unchanged.
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contactID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	contact, err := h.contactRepository.GetContactByID(contactID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if contact.CreatedBy != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own contacts")
	}

	var req models.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Name != "" {
		contact.Name = req.Name
	}
	if req.Email != "" {
		contact.Email = strings.ToLower(req.Email)
		contact.AuthUserID = nil
		if linked, err := h.userRepository.GetUserByEmail(contact.Email); err == nil {
			contact.AuthUserID = &linked.ID
		}
	}
	if req.Phone != "" {
		contact.Phone = req.Phone
	}
	if req.Relationship != "" {
		contact.Relationship = req.Relationship
	}

	if err := h.contactRepository.UpdateContact(contact); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update contact")
	}

	return c.JSON(http.StatusOK, contact)
}

// DeleteContact removes one of the caller's contacts.
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contactID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.contactRepository.DeleteContact(contactID, userID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Contact deleted"})
}
