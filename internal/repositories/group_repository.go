package repositories

import (
	"github.com/shaka3507/amanos/internal/models"
	"gorm.io/gorm"
)

// GroupRepository defines the interface for group and membership operations
type GroupRepository interface {
	CreateGroup(group *models.Group) error
	AddMember(member *models.GroupMember) error
	GetMember(groupID, userID uint) (*models.GroupMember, error)
	IsMember(groupID, userID uint) (bool, error)
	GetMembers(groupID uint) ([]models.GroupMember, error)
}

// PostgresGroupRepository implements GroupRepository for PostgreSQL
type PostgresGroupRepository struct {
	db *gorm.DB
}

// NewPostgresGroupRepository creates a new PostgresGroupRepository
func NewPostgresGroupRepository(db *gorm.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) CreateGroup(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *PostgresGroupRepository) AddMember(member *models.GroupMember) error {
	return r.db.Create(member).Error
}

// GetMember retrieves one membership row, including its role.
func (r *PostgresGroupRepository) GetMember(groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresGroupRepository) GetMembers(groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
