package repositories

import (
	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for message reaction operations
type ReactionRepository interface {
	CreateReaction(reaction *models.MessageReaction) error
	DeleteReaction(messageID, userID uint, label string) error
	HasReaction(messageID, userID uint, label string) (bool, error)
	GetReactionsByMessageID(messageID uint) ([]models.MessageReaction, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

func (r *PostgresReactionRepository) CreateReaction(reaction *models.MessageReaction) error {
	return r.db.Create(reaction).Error
}

// DeleteReaction removes the row if present. A missing row is not an
// error: a concurrent toggle from another device already removed it,
// and both end up at the same off state.
func (r *PostgresReactionRepository) DeleteReaction(messageID, userID uint, label string) error {
	return r.db.Where("message_id = ? AND user_id = ? AND reaction = ?", messageID, userID, label).
		Delete(&models.MessageReaction{}).Error
}

func (r *PostgresReactionRepository) HasReaction(messageID, userID uint, label string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.MessageReaction{}).
		Where("message_id = ? AND user_id = ? AND reaction = ?", messageID, userID, label).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresReactionRepository) GetReactionsByMessageID(messageID uint) ([]models.MessageReaction, error) {
	var reactions []models.MessageReaction
	if err := r.db.Where("message_id = ?", messageID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}
