package models

import "time"

// Alert lifecycle states. Only the creator may move an alert between
// them; there is no automatic expiry.
const (
	AlertStatusActive   = "active"
	AlertStatusPast     = "past"
	AlertStatusArchived = "archived"
)

// Alert is one emergency event coordinated by a group.
type Alert struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	GroupID          uint      `json:"group_id" gorm:"not null;index"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category" gorm:"size:30"`
	WeatherEventType string    `json:"weather_event_type" gorm:"size:30"`
	Status           string    `json:"status" gorm:"size:10;default:active;index"`
	CreatedBy        uint      `json:"created_by" gorm:"index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"-"`
}

// CreateAlertRequest drives the alert-creation flow. Title and
// description fall back to values derived from the weather event, and
// items fall back to the default catalog for that event.
type CreateAlertRequest struct {
	Category         string              `json:"category" validate:"required,oneof=weather other"`
	WeatherEventType string              `json:"weather_event_type" validate:"required"`
	Title            string              `json:"title,omitempty" validate:"omitempty,max=200"`
	Description      string              `json:"description,omitempty"`
	Items            []CreateItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type UpdateAlertStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active past archived"`
}

// AlertView is the snapshot returned by GET /alerts/:id: the alert, its
// items, its messages with folded reactions, and whether the caller is
// the alert's admin (its creator).
type AlertView struct {
	Alert    Alert         `json:"alert"`
	Items    []CrisisItem  `json:"items"`
	Messages []MessageView `json:"messages"`
	IsAdmin  bool          `json:"is_admin"`
}
