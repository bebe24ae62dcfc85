package repositories

import (
	"errors"

	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// ErrItemExhausted is returned when a claim targets an item whose
// claimed quantity already equals its quantity.
var ErrItemExhausted = errors.New("item fully claimed")

// ItemRepository defines the interface for crisis item and claim operations
type ItemRepository interface {
	CreateItems(items []models.CrisisItem) error
	GetItemByID(id uint) (*models.CrisisItem, error)
	GetItemsByAlertID(alertID uint) ([]models.CrisisItem, error)
	ClaimItem(itemID, userID uint) (*models.CrisisItem, error)
	GetClaimsByItemID(itemID uint) ([]models.ItemClaim, error)
}

// PostgresItemRepository implements ItemRepository for PostgreSQL
type PostgresItemRepository struct {
	db *gorm.DB
}

// NewPostgresItemRepository creates a new PostgresItemRepository
func NewPostgresItemRepository(db *gorm.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

func (r *PostgresItemRepository) CreateItems(items []models.CrisisItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

func (r *PostgresItemRepository) GetItemByID(id uint) (*models.CrisisItem, error) {
	var item models.CrisisItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresItemRepository) GetItemsByAlertID(alertID uint) ([]models.CrisisItem, error) {
	var items []models.CrisisItem
	if err := r.db.Where("alert_id = ?", alertID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ClaimItem atomically claims one unit of an item. The increment is
// guarded by claimed_quantity < quantity so the counter can never pass
// the target, and the claim row is appended in the same transaction:
// a claim row exists iff an increment happened. Returns
// ErrItemExhausted when nothing was left to claim.
func (r *PostgresItemRepository) ClaimItem(itemID, userID uint) (*models.CrisisItem, error) {
	var item models.CrisisItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CrisisItem{}).
			Where("id = ? AND claimed_quantity < quantity", itemID).
			UpdateColumn("claimed_quantity", gorm.Expr("claimed_quantity + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either the item is exhausted or it does not exist.
			if err := tx.First(&item, itemID).Error; err != nil {
				return err
			}
			return ErrItemExhausted
		}
		claim := models.ItemClaim{ItemID: itemID, UserID: userID, Quantity: 1}
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}
		return tx.First(&item, itemID).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresItemRepository) GetClaimsByItemID(itemID uint) ([]models.ItemClaim, error) {
	var claims []models.ItemClaim
	if err := r.db.Where("item_id = ?", itemID).Order("created_at").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}
