package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery kinds recorded in the notification log.
const (
	DeliveryKindGroupMessage = "group_message"
	DeliveryKindAlert        = "alert"
	DeliveryKindInvitation   = "invitation"
	DeliveryKindContact      = "contact"
)

// DeliveryLogEntry records one attempted notification email (MongoDB).
// Entries are written once by the notifier and never updated.
type DeliveryLogEntry struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID   uint               `json:"alert_id" bson:"alert_id"`
	MessageID uint               `json:"message_id,omitempty" bson:"message_id,omitempty"`
	Kind      string             `json:"kind" bson:"kind"`
	Recipient string             `json:"recipient" bson:"recipient"`
	Success   bool               `json:"success" bson:"success"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
