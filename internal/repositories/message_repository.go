package repositories

import (
	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for alert message operations
type MessageRepository interface {
	CreateMessage(message *models.AlertMessage) error
	GetMessageByID(id uint) (*models.AlertMessage, error)
	GetMessagesByAlertID(alertID uint) ([]models.AlertMessage, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) CreateMessage(message *models.AlertMessage) error {
	return r.db.Create(message).Error
}

func (r *PostgresMessageRepository) GetMessageByID(id uint) (*models.AlertMessage, error) {
	var message models.AlertMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesByAlertID retrieves an alert's thread in creation order.
func (r *PostgresMessageRepository) GetMessagesByAlertID(alertID uint) ([]models.AlertMessage, error) {
	var messages []models.AlertMessage
	if err := r.db.Where("alert_id = ?", alertID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
