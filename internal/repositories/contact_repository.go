package repositories

import (
	"fmt"

	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for emergency contact operations
type ContactRepository interface {
	CreateContact(contact *models.EmergencyContact) error
	GetContactByID(id uint) (*models.EmergencyContact, error)
	GetContactsByOwner(userID uint) ([]models.EmergencyContact, error)
	UpdateContact(contact *models.EmergencyContact) error
	DeleteContact(id, ownerID uint) error
}

// PostgresContactRepository implements ContactRepository for PostgreSQL
type PostgresContactRepository struct {
	db *gorm.DB
}

// NewPostgresContactRepository creates a new PostgresContactRepository
func NewPostgresContactRepository(db *gorm.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

func (r *PostgresContactRepository) CreateContact(contact *models.EmergencyContact) error {
	return r.db.Create(contact).Error
}

func (r *PostgresContactRepository) GetContactByID(id uint) (*models.EmergencyContact, error) {
	var contact models.EmergencyContact
	if err := r.db.First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *PostgresContactRepository) GetContactsByOwner(userID uint) ([]models.EmergencyContact, error) {
	var contacts []models.EmergencyContact
	if err := r.db.Where("created_by = ?", userID).Order("name").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *PostgresContactRepository) UpdateContact(contact *models.EmergencyContact) error {
	return r.db.Save(contact).Error
}

// DeleteContact removes a contact, scoped to its owner so one user
// cannot delete another's contacts.
func (r *PostgresContactRepository) DeleteContact(id, ownerID uint) error {
	res := r.db.Where("id = ? AND created_by = ?", id, ownerID).Delete(&models.EmergencyContact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("contact not found")
	}
	return nil
}
