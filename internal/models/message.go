package models

import "time"

// AlertMessage is one entry in an alert's notification thread.
// Messages are immutable once created.
type AlertMessage struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	AlertID         uint      `json:"alert_id" gorm:"not null;index"`
	UserID          uint      `json:"user_id" gorm:"index"`
	Content         string    `json:"content"`
	IsSystemMessage bool      `json:"is_system_message" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

type CreateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageReaction is one (message, user, label) tuple. The composite
// unique index makes the toggle converge to at most one row even when
// two devices race.
type MessageReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MessageID uint      `json:"message_id" gorm:"not null;uniqueIndex:idx_msg_user_reaction"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_msg_user_reaction"`
	Reaction  string    `json:"reaction" gorm:"size:30;not null;uniqueIndex:idx_msg_user_reaction"`
	CreatedAt time.Time `json:"created_at"`
}

type ToggleReactionRequest struct {
	Reaction string `json:"reaction" validate:"required,max=30"`
}

// MessageView is a message with its reactions folded into a mapping
// from reaction label to the ids of the users who reacted with it.
type MessageView struct {
	AlertMessage
	Reactions map[string][]uint `json:"reactions"`
}

// FoldReactions builds the per-label user-id mapping for one message.
func FoldReactions(reactions []MessageReaction) map[string][]uint {
	folded := make(map[string][]uint)
	for _, r := range reactions {
		folded[r.Reaction] = append(folded[r.Reaction], r.UserID)
	}
	return folded
}
