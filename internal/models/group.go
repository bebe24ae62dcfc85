package models

import "gorm.io/gorm"

// Per-group roles. A group admin is not the same thing as a site admin.
const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"
)

// Group is the membership container behind an alert. Current usage is
// one group per alert.
type Group struct {
	gorm.Model `json:"-"`
	ID         uint `json:"id" gorm:"primaryKey"`
	CreatedBy  uint `json:"created_by" gorm:"index"`
}

// GroupMember ties a user to a group with a role. Membership determines
// message and notification visibility for the group's alert.
type GroupMember struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	GroupID    uint   `json:"group_id" gorm:"not null;uniqueIndex:idx_group_user"`
	UserID     uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_group_user"`
	Role       string `json:"role" gorm:"size:10;not null"`
}
