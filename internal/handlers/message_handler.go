package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/feed"
	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/notify"
	"github.com/shaka3507/amanos/internal/repositories"
)

// MessageHandler handles the alert message thread and the notification
// dispatch endpoint.
type MessageHandler struct {
	alertRepository    repositories.AlertRepository
	groupRepository    repositories.GroupRepository
	messageRepository  repositories.MessageRepository
	reactionRepository repositories.ReactionRepository
	userRepository     repositories.UserRepository
	notifier           *notify.Notifier
	hub                *feed.Hub
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	alertRepo repositories.AlertRepository,
	groupRepo repositories.GroupRepository,
	messageRepo repositories.MessageRepository,
	reactionRepo repositories.ReactionRepository,
	userRepo repositories.UserRepository,
	notifier *notify.Notifier,
	hub *feed.Hub,
) *MessageHandler {
	return &MessageHandler{
		alertRepository:    alertRepo,
		groupRepository:    groupRepo,
		messageRepository:  messageRepo,
		reactionRepository: reactionRepo,
		userRepository:     userRepo,
		notifier:           notifier,
		hub:                hub,
	}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/alerts/:id/messages", h.SendMessage)
	g.POST("/alerts/:id/notify", h.DispatchNotifications)
}

// SendMessage posts a message to the alert's thread. Only the alert's
// admin (its creator) may post, and the trimmed content must be
// non-empty; nothing is written otherwise. On success the message is
// broadcast over the feed and notifications are dispatched in the
// background without blocking the response.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	alertID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	alert, err := h.alertRepository.GetAlertByID(alertID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Alert not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if alert.CreatedBy != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the alert admin can send messages")
	}

	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message content is required")
	}

	message := &models.AlertMessage{
		AlertID: alert.ID,
		UserID:  userID,
		Content: content,
	}
	if err := h.messageRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save message")
	}

	view := &models.MessageView{
		AlertMessage: *message,
		Reactions:    map[string][]uint{},
	}
	h.hub.BroadcastMessage(alert.ID, view)

	// Fire-and-forget dispatch: failures are logged, never rolled back.
	senderName := h.senderName(userID)
	go func() {
		result, err := h.notifier.NotifyGroupMessage(context.Background(), alert, message, senderName)
		if err != nil {
			slog.Error("Group message notification dispatch failed", "alert_id", alert.ID, "message_id", message.ID, "error", err)
			return
		}
		if result.Partial() {
			slog.Warn("Group message notifications partially delivered",
				"alert_id", alert.ID, "message_id", message.ID, "sent", result.Sent, "failed", result.Failed)
		}
	}()

	return c.JSON(http.StatusCreated, view)
}

// DispatchRequest is the body of the notification dispatch endpoint.
// MessageID may reference a message already persisted by the caller;
// otherwise MessageText is persisted first.
type DispatchRequest struct {
	MessageText string `json:"message_text"`
	MessageID   uint   `json:"message_id,omitempty"`
}

// DispatchNotifications persists the message if needed, resolves all
// recipients of the alert (group members plus the creator's emergency
// contacts), and sends one email per recipient, continuing past
// individual failures. Returns 200 on full success and 207 when the
// message was saved but some or all sends failed.
func (h *MessageHandler) DispatchNotifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	alertID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	alert, err := h.alertRepository.GetAlertByID(alertID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Alert not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isMember, err := h.groupRepository.IsMember(alert.GroupID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isMember {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to send messages to this group")
	}

	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	var message *models.AlertMessage
	if req.MessageID != 0 {
		message, err = h.messageRepository.GetMessageByID(req.MessageID)
		if err != nil || message.AlertID != alert.ID {
			return echo.NewHTTPError(http.StatusNotFound, "Message not found")
		}
	} else {
		content := strings.TrimSpace(req.MessageText)
		if content == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
		}
		message = &models.AlertMessage{
			AlertID: alert.ID,
			UserID:  userID,
			Content: content,
		}
		if err := h.messageRepository.CreateMessage(message); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save message")
		}
		h.hub.BroadcastMessage(alert.ID, &models.MessageView{
			AlertMessage: *message,
			Reactions:    map[string][]uint{},
		})
	}

	result, err := h.notifier.NotifyGroupMessage(c.Request().Context(), alert, message, h.senderName(userID))
	if err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			return c.JSON(http.StatusMultiStatus, echo.Map{
				"success":    true,
				"message":    "Email service not configured, but message was saved",
				"message_id": message.ID,
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get recipients")
	}

	if result.Partial() {
		return c.JSON(http.StatusMultiStatus, echo.Map{
			"success":    true,
			"message":    "Message saved but some notifications failed",
			"message_id": message.ID,
			"sent":       result.Sent,
			"failed":     result.Failed,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "Message sent successfully",
		"message_id": message.ID,
		"sent":       result.Sent,
	})
}

func (h *MessageHandler) senderName(userID uint) string {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return "A group member"
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Email
}
