package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/repositories"
)

// InvitationHandler handles invitation previews and acceptance
type InvitationHandler struct {
	invitationRepository repositories.InvitationRepository
	groupRepository      repositories.GroupRepository
	alertRepository      repositories.AlertRepository
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(
	invitationRepo repositories.InvitationRepository,
	groupRepo repositories.GroupRepository,
	alertRepo repositories.AlertRepository,
) *InvitationHandler {
	return &InvitationHandler{
		invitationRepository: invitationRepo,
		groupRepository:      groupRepo,
		alertRepository:      alertRepo,
	}
}

// RegisterPublicInvitationRoutes registers the unauthenticated preview
// route used by the join page before sign-in.
func (h *InvitationHandler) RegisterPublicInvitationRoutes(g *echo.Group) {
	g.GET("/invitations/:token", h.PreviewInvitation)
}

// RegisterInvitationRoutes registers the authenticated routes
func (h *InvitationHandler) RegisterInvitationRoutes(g *echo.Group) {
	g.POST("/invitations/accept", h.AcceptInvitation)
}

// PreviewInvitation shows who the invitation is for and which alert it
// joins, without requiring a session. Used to render the join page.
func (h *InvitationHandler) PreviewInvitation(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing invitation token")
	}

	invitation, err := h.invitationRepository.GetByToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Invalid or expired invitation")
	}

	preview := models.InvitationPreview{
		AlertID: invitation.AlertID,
		Name:    invitation.Name,
		Status:  invitation.Status,
	}
	if alert, err := h.alertRepository.GetAlertByID(invitation.AlertID); err == nil {
		preview.AlertTitle = alert.Title
	}

	return c.JSON(http.StatusOK, preview)
}

// AcceptInvitation consumes an invitation token: the caller joins the
// group (role member) unless already in it, and the invitation is
// marked accepted. Accepting an already-accepted invitation performs
// no writes and still returns the alert id, so the link is idempotent.
func (h *InvitationHandler) AcceptInvitation(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing invitation token")
	}

	invitation, err := h.invitationRepository.GetByToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Invalid or expired invitation")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if invitation.Status == models.InvitationStatusAccepted {
		// Already consumed; just point the caller at the alert.
		return c.JSON(http.StatusOK, echo.Map{
			"alert_id": invitation.AlertID,
			"status":   invitation.Status,
		})
	}

	isMember, err := h.groupRepository.IsMember(invitation.GroupID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isMember {
		member := &models.GroupMember{
			GroupID: invitation.GroupID,
			UserID:  userID,
			Role:    models.GroupRoleMember,
		}
		if err := h.groupRepository.AddMember(member); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to join the group")
		}
	}

	if err := h.invitationRepository.MarkAccepted(invitation.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"alert_id": invitation.AlertID,
		"status":   models.InvitationStatusAccepted,
	})
}
