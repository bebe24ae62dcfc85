package models

import "time"

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
)

// AlertInvitation is a pending invite for a contact who has no account
// yet. The token link is consumed exactly once; re-accepting an
// already-accepted invitation is a no-op.
type AlertInvitation struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	AlertID    uint       `json:"alert_id" gorm:"not null;index"`
	GroupID    uint       `json:"group_id" gorm:"not null;index"`
	Name       string     `json:"name"`
	Email      string     `json:"email" gorm:"index"`
	Phone      string     `json:"phone"`
	InvitedBy  uint       `json:"invited_by"`
	Token      string     `json:"token" gorm:"uniqueIndex;size:36"`
	Status     string     `json:"status" gorm:"size:10;default:pending"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"-"`
}

// AddMemberRequest is one row of a member upload: an existing user is
// added to the group directly, anyone else gets an invitation.
type AddMemberRequest struct {
	Name  string `json:"name" validate:"required,max=80"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,max=30"`
}

type AddMembersRequest struct {
	Members []AddMemberRequest `json:"members" validate:"required,min=1,dive"`
}

// AddMembersResult summarizes a member upload.
type AddMembersResult struct {
	Added   int      `json:"added"`
	Invited int      `json:"invited"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// InvitationPreview is the public view of an invitation shown on the
// join page before the visitor signs in.
type InvitationPreview struct {
	AlertID    uint   `json:"alert_id"`
	AlertTitle string `json:"alert_title"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}
