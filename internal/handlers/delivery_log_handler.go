package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/repositories"
)

const deliveryLogPageSize = 100

// DeliveryLogHandler exposes the notification delivery log for an
// alert, so the admin can see who actually got emailed.
type DeliveryLogHandler struct {
	alertRepository repositories.AlertRepository
	deliveryLog     repositories.DeliveryLogRepository
}

// NewDeliveryLogHandler creates a new DeliveryLogHandler
func NewDeliveryLogHandler(alertRepo repositories.AlertRepository, deliveryLog repositories.DeliveryLogRepository) *DeliveryLogHandler {
	return &DeliveryLogHandler{
		alertRepository: alertRepo,
		deliveryLog:     deliveryLog,
	}
}

// RegisterDeliveryLogRoutes registers delivery log routes
func (h *DeliveryLogHandler) RegisterDeliveryLogRoutes(g *echo.Group) {
	g.GET("/alerts/:id/notifications", h.ListDeliveries)
}

// ListDeliveries returns the most recent delivery attempts for an
// alert, newest first. Creator only: the log contains every
// recipient's address.
func (h *DeliveryLogHandler) ListDeliveries(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusForbidden, "Only the alert admin can view the delivery log")
	}

	entries, err := h.deliveryLog.GetByAlertID(c.Request().Context(), alertID, deliveryLogPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load delivery log")
	}

	return c.JSON(http.StatusOK, echo.Map{"alert_id": alertID, "deliveries": entries})
}
