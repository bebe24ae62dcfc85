package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/feed"
	"github.com/shaka3507/amanos/internal/repositories"
	"github.com/shaka3507/amanos/pkg/metrics"
)

// ItemHandler handles crisis item claims
type ItemHandler struct {
	itemRepository  repositories.ItemRepository
	alertRepository repositories.AlertRepository
	groupRepository repositories.GroupRepository
	hub             *feed.Hub
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(
	itemRepo repositories.ItemRepository,
	alertRepo repositories.AlertRepository,
	groupRepo repositories.GroupRepository,
	hub *feed.Hub,
) *ItemHandler {
	return &ItemHandler{
		itemRepository:  itemRepo,
		alertRepository: alertRepo,
		groupRepository: groupRepo,
		hub:             hub,
	}
}

// RegisterItemRoutes registers item-related routes
func (h *ItemHandler) RegisterItemRoutes(g *echo.Group) {
	g.POST("/items/:item_id/claims", h.ClaimItem)
	g.GET("/items/:item_id/claims", h.ListClaims)
}

// ClaimItem claims one unit of a crisis item. The increment and the
// claim row are written in one transaction with an exhausted guard, so
// claimed_quantity can never exceed quantity even under concurrent
// claimants. An exhausted item yields 409 and no writes.
func (h *ItemHandler) ClaimItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	itemID, err := parseUintParam(c, "item_id")
	if err != nil {
		return err
	}

	item, err := h.itemRepository.GetItemByID(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	alert, err := h.alertRepository.GetAlertByID(item.AlertID)
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

	claimed, err := h.itemRepository.ClaimItem(itemID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemExhausted) {
			return echo.NewHTTPError(http.StatusConflict, "Item fully claimed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	metrics.ItemClaims.Inc()
	h.hub.BroadcastItem(alert.ID, claimed)

	return c.JSON(http.StatusOK, claimed)
}

// ListClaims returns the append-only claim log for an item.
func (h *ItemHandler) ListClaims(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	itemID, err := parseUintParam(c, "item_id")
	if err != nil {
		return err
	}

	item, err := h.itemRepository.GetItemByID(itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	alert, err := h.alertRepository.GetAlertByID(item.AlertID)
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

	claims, err := h.itemRepository.GetClaimsByItemID(itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"item_id": itemID, "claims": claims})
}
