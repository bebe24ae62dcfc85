package repositories

import (
	"time"

	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// InvitationRepository defines the interface for alert invitation operations
type InvitationRepository interface {
	CreateInvitation(invitation *models.AlertInvitation) error
	GetByToken(token string) (*models.AlertInvitation, error)
	MarkAccepted(id uint) error
}

// PostgresInvitationRepository implements InvitationRepository for PostgreSQL
type PostgresInvitationRepository struct {
	db *gorm.DB
}

// NewPostgresInvitationRepository creates a new PostgresInvitationRepository
func NewPostgresInvitationRepository(db *gorm.DB) *PostgresInvitationRepository {
	return &PostgresInvitationRepository{db: db}
}

func (r *PostgresInvitationRepository) CreateInvitation(invitation *models.AlertInvitation) error {
	return r.db.Create(invitation).Error
}

func (r *PostgresInvitationRepository) GetByToken(token string) (*models.AlertInvitation, error) {
	var invitation models.AlertInvitation
	if err := r.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// MarkAccepted flips an invitation to accepted and stamps the time.
func (r *PostgresInvitationRepository) MarkAccepted(id uint) error {
	now := time.Now()
	return r.db.Model(&models.AlertInvitation{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.InvitationStatusAccepted,
			"accepted_at": &now,
		}).Error
}
