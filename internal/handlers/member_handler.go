package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/notify"
	"github.com/shaka3507/amanos/internal/repositories"
)

// MemberHandler handles bulk member additions to an alert's group
type MemberHandler struct {
	alertRepository      repositories.AlertRepository
	groupRepository      repositories.GroupRepository
	userRepository       repositories.UserRepository
	invitationRepository repositories.InvitationRepository
	notifier             *notify.Notifier
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(
	alertRepo repositories.AlertRepository,
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	invitationRepo repositories.InvitationRepository,
	notifier *notify.Notifier,
) *MemberHandler {
	return &MemberHandler{
		alertRepository:      alertRepo,
		groupRepository:      groupRepo,
		userRepository:       userRepo,
		invitationRepository: invitationRepo,
		notifier:             notifier,
	}
}

// RegisterMemberRoutes registers member-related routes
func (h *MemberHandler) RegisterMemberRoutes(g *echo.Group) {
	g.POST("/alerts/:id/members", h.AddMembers)
}

// AddMembers adds a batch of people to an alert's group. Existing
// accounts (matched by email) become members immediately; everyone
// else gets a pending invitation with a token link emailed to them.
// Only group admins may add members. Per-row failures are collected,
// not fatal.
func (h *MemberHandler) AddMembers(c echo.Context) error {
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

	member, err := h.groupRepository.GetMember(alert.GroupID, userID)
	if err != nil || member.Role != models.GroupRoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only group admins can add members")
	}

	var req models.AddMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var result models.AddMembersResult
	for _, row := range req.Members {
		invited, err := h.addOne(c.Request().Context(), alert, userID, row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row for %s: %v", row.Email, err))
			continue
		}
		if invited {
			result.Invited++
		} else {
			result.Added++
		}
	}

	return c.JSON(http.StatusOK, result)
}

// addOne processes a single row and reports whether it resulted in a
// pending invitation (true) or an immediate membership (false).
func (h *MemberHandler) addOne(ctx context.Context, alert *models.Alert, invitedBy uint, row models.AddMemberRequest) (bool, error) {
	email := strings.ToLower(row.Email)

	existing, err := h.userRepository.GetUserByEmail(email)
	if err == nil {
		isMember, err := h.groupRepository.IsMember(alert.GroupID, existing.ID)
		if err != nil {
			return false, err
		}
		if !isMember {
			return false, h.groupRepository.AddMember(&models.GroupMember{
				GroupID: alert.GroupID,
				UserID:  existing.ID,
				Role:    models.GroupRoleMember,
			})
		}
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	invitation := &models.AlertInvitation{
		AlertID:   alert.ID,
		GroupID:   alert.GroupID,
		Name:      row.Name,
		Email:     email,
		Phone:     row.Phone,
		InvitedBy: invitedBy,
		Token:     uuid.NewString(),
		Status:    models.InvitationStatusPending,
	}
	if err := h.invitationRepository.CreateInvitation(invitation); err != nil {
		return false, fmt.Errorf("failed to create invitation: %w", err)
	}

	// Email problems do not undo the invitation; the token link still
	// works once the mail provider recovers.
	if err := h.notifier.NotifyInvitation(ctx, invitation, alert.Title); err != nil {
		slog.Error("Failed to send invitation email", "invitation_id", invitation.ID, "error", err)
	}
	return true, nil
}
