package repositories

import (
	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// AlertRepository defines the interface for alert data operations
type AlertRepository interface {
	CreateAlert(alert *models.Alert) error
	GetAlertByID(id uint) (*models.Alert, error)
	GetAlertsForUser(userID uint) ([]models.Alert, error)
	UpdateStatus(id uint, status string) error
}

// PostgresAlertRepository implements AlertRepository for PostgreSQL
type PostgresAlertRepository struct {
	db *gorm.DB
}

// NewPostgresAlertRepository creates a new PostgresAlertRepository
func NewPostgresAlertRepository(db *gorm.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{db: db}
}

func (r *PostgresAlertRepository) CreateAlert(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

func (r *PostgresAlertRepository) GetAlertByID(id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// GetAlertsForUser retrieves the alerts whose group the user belongs
// to, newest first.
func (r *PostgresAlertRepository) GetAlertsForUser(userID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.
		Joins("JOIN group_members ON group_members.group_id = alerts.group_id").
		Where("group_members.user_id = ?", userID).
		Order("alerts.created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *PostgresAlertRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Alert{}).Where("id = ?", id).Update("status", status).Error
}
