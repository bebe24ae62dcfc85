package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/repositories"
)

// ReactionHandler handles message reaction toggles
type ReactionHandler struct {
	messageRepository  repositories.MessageRepository
	reactionRepository repositories.ReactionRepository
	alertRepository    repositories.AlertRepository
	groupRepository    repositories.GroupRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(
	messageRepo repositories.MessageRepository,
	reactionRepo repositories.ReactionRepository,
	alertRepo repositories.AlertRepository,
	groupRepo repositories.GroupRepository,
) *ReactionHandler {
	return &ReactionHandler{
		messageRepository:  messageRepo,
		reactionRepository: reactionRepo,
		alertRepository:    alertRepo,
		groupRepository:    groupRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/messages/:message_id/reactions", h.ToggleReaction)
}

// ToggleReaction flips the caller's reaction on a message: the row is
// deleted when present and inserted when absent. The composite unique
// index on (message, user, reaction) keeps racing devices convergent.
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	messageID, err := parseUintParam(c, "message_id")
	if err != nil {
		return err
	}

	message, err := h.messageRepository.GetMessageByID(messageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Message not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	alert, err := h.alertRepository.GetAlertByID(message.AlertID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	isMember, err := h.groupRepository.IsMember(alert.GroupID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isMember {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this alert's group")
	}

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hasReacted, err := h.reactionRepository.HasReaction(messageID, userID, req.Reaction)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if hasReacted {
		if err := h.reactionRepository.DeleteReaction(messageID, userID, req.Reaction); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message_id": messageID,
			"reaction":   req.Reaction,
			"reacted":    false,
		})
	}

	reaction := &models.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Reaction:  req.Reaction,
	}
	if err := h.reactionRepository.CreateReaction(reaction); err != nil {
		// A concurrent toggle from another device won the insert race.
		return echo.NewHTTPError(http.StatusConflict, "Reaction already recorded")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message_id": messageID,
		"reaction":   req.Reaction,
		"reacted":    true,
	})
}
