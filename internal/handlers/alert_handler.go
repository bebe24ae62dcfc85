package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/feed"
	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/notify"
	"github.com/shaka3507/amanos/internal/repositories"
)

// AlertHandler handles HTTP requests for alerts and their live view
type AlertHandler struct {
	alertRepository    repositories.AlertRepository
	groupRepository    repositories.GroupRepository
	itemRepository     repositories.ItemRepository
	messageRepository  repositories.MessageRepository
	reactionRepository repositories.ReactionRepository
	contactRepository  repositories.ContactRepository
	userRepository     repositories.UserRepository
	notifier           *notify.Notifier
	hub                *feed.Hub
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(
	alertRepo repositories.AlertRepository,
	groupRepo repositories.GroupRepository,
	itemRepo repositories.ItemRepository,
	messageRepo repositories.MessageRepository,
	reactionRepo repositories.ReactionRepository,
	contactRepo repositories.ContactRepository,
	userRepo repositories.UserRepository,
	notifier *notify.Notifier,
	hub *feed.Hub,
) *AlertHandler {
	return &AlertHandler{
		alertRepository:    alertRepo,
		groupRepository:    groupRepo,
		itemRepository:     itemRepo,
		messageRepository:  messageRepo,
		reactionRepository: reactionRepo,
		contactRepository:  contactRepo,
		userRepository:     userRepo,
		notifier:           notifier,
		hub:                hub,
	}
}

// RegisterAlertRoutes registers alert-related routes
func (h *AlertHandler) RegisterAlertRoutes(g *echo.Group) {
	g.GET("/alerts", h.ListAlerts)
	g.POST("/alerts", h.CreateAlert)
	g.GET("/alerts/:id", h.GetAlertView)
	g.PATCH("/alerts/:id/status", h.UpdateAlertStatus)
	g.GET("/alerts/:id/feed", h.AlertFeed)
}

// ListAlerts returns the alerts visible to the caller through group
// membership, newest first.
func (h *AlertHandler) ListAlerts(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	alerts, err := h.alertRepository.GetAlertsForUser(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts})
}

// CreateAlert runs the full creation flow: group, alert, crisis items,
// creator admin membership, then fire-and-forget notification emails
// to the creator's emergency contacts.
func (h *AlertHandler) CreateAlert(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateAlertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group := &models.Group{CreatedBy: userID}
	if err := h.groupRepository.CreateGroup(group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create group")
	}

	title := req.Title
	if title == "" {
		title = titleCase(req.WeatherEventType) + " Alert"
	}
	description := req.Description
	if description == "" {
		description = "Emergency alert for " + req.WeatherEventType
	}

	alert := &models.Alert{
		GroupID:          group.ID,
		Title:            title,
		Description:      description,
		Category:         req.Category,
		WeatherEventType: req.WeatherEventType,
		Status:           models.AlertStatusActive,
		CreatedBy:        userID,
	}
	if err := h.alertRepository.CreateAlert(alert); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create alert")
	}

	itemReqs := req.Items
	if len(itemReqs) == 0 {
		itemReqs = models.DefaultItemsFor(req.WeatherEventType)
	}
	items := make([]models.CrisisItem, 0, len(itemReqs))
	for _, item := range itemReqs {
		items = append(items, models.CrisisItem{
			AlertID:     alert.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
		})
	}
	if err := h.itemRepository.CreateItems(items); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create crisis items")
	}

	member := &models.GroupMember{
		GroupID: group.ID,
		UserID:  userID,
		Role:    models.GroupRoleAdmin,
	}
	if err := h.groupRepository.AddMember(member); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add creator to group")
	}

	// Notify the creator's emergency contacts in the background; email
	// problems never fail alert creation.
	contacts, err := h.contactRepository.GetContactsByOwner(userID)
	if err != nil {
		slog.Error("Failed to fetch emergency contacts for alert notification", "alert_id", alert.ID, "error", err)
	} else if len(contacts) > 0 {
		senderName := h.senderName(userID)
		go func() {
			if _, err := h.notifier.NotifyAlertCreated(context.Background(), alert, contacts, senderName); err != nil {
				slog.Error("Alert notification dispatch failed", "alert_id", alert.ID, "error", err)
			}
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{"alert": alert, "items": items})
}

// GetAlertView returns the live-view snapshot: alert, items, messages
// with folded reactions, and whether the caller is the alert's admin.
func (h *AlertHandler) GetAlertView(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	alert, err := h.loadAlertForMember(c, userID)
	if err != nil {
		return err
	}

	items, err := h.itemRepository.GetItemsByAlertID(alert.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	messages, err := h.messageRepository.GetMessagesByAlertID(alert.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, message := range messages {
		reactions, err := h.reactionRepository.GetReactionsByMessageID(message.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		views = append(views, models.MessageView{
			AlertMessage: message,
			Reactions:    models.FoldReactions(reactions),
		})
	}

	view := models.AlertView{
		Alert:    *alert,
		Items:    items,
		Messages: views,
		IsAdmin:  alert.CreatedBy == userID,
	}

	return c.JSON(http.StatusOK, view)
}

// UpdateAlertStatus moves an alert between active, past and archived.
// Only the creator may change status.
func (h *AlertHandler) UpdateAlertStatus(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusNotFound, "Alert not found")
	}
	if alert.CreatedBy != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the alert creator can change its status")
	}

	var req models.UpdateAlertStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.alertRepository.UpdateStatus(alert.ID, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	alert.Status = req.Status

	return c.JSON(http.StatusOK, alert)
}

// AlertFeed upgrades to a websocket and streams this alert's change
// events (message inserts, item updates) until the client disconnects.
func (h *AlertHandler) AlertFeed(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	alert, err := h.loadAlertForMember(c, userID)
	if err != nil {
		return err
	}

	return h.hub.Serve(alert.ID, c.Response(), c.Request())
}

// loadAlertForMember resolves the :id param and enforces group
// membership: 404 for unknown alerts, 403 for non-members.
func (h *AlertHandler) loadAlertForMember(c echo.Context, userID uint) (*models.Alert, error) {
	alertID, err := parseUintParam(c, "id")
	if err != nil {
		return nil, err
	}

	alert, err := h.alertRepository.GetAlertByID(alertID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Alert not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isMember, err := h.groupRepository.IsMember(alert.GroupID, userID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isMember {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not a member of this alert's group")
	}

	return alert, nil
}

func (h *AlertHandler) senderName(userID uint) string {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return "A group member"
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Email
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return uint(value), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
