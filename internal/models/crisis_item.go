package models

import "time"

// CrisisItem is one supply requirement on an alert. ClaimedQuantity
// only moves forward: 0 <= ClaimedQuantity <= Quantity, and once an
// item is exhausted it stays exhausted.
type CrisisItem struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	AlertID         uint      `json:"alert_id" gorm:"not null;index"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	ClaimedQuantity int       `json:"claimed_quantity" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

// Exhausted reports whether every unit of the item has been claimed.
func (i *CrisisItem) Exhausted() bool {
	return i.ClaimedQuantity >= i.Quantity
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// ItemClaim is an append-only record of one unit claimed against a
// crisis item. Rows are written once and never updated.
type ItemClaim struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ItemID    uint      `json:"item_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
}
