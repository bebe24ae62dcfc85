package models

import "gorm.io/gorm"

// EmergencyContact is a person the owner wants notified during a
// crisis. AuthUserID links the contact to an account when one exists.
type EmergencyContact struct {
	gorm.Model   `json:"-"`
	ID           uint   `json:"id" gorm:"primaryKey"`
	CreatedBy    uint   `json:"created_by" gorm:"not null;index"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	AuthUserID   *uint  `json:"auth_user_id,omitempty"`
}

type CreateContactRequest struct {
	Name         string `json:"name" validate:"required,max=80"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,max=30"`
	Relationship string `json:"relationship,omitempty" validate:"omitempty,max=50"`
}

type UpdateContactRequest struct {
	Name         string `json:"name,omitempty" validate:"omitempty,max=80"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Relationship string `json:"relationship,omitempty" validate:"omitempty,max=50"`
}
