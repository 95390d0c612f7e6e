package repository

import (
	"encoding/json"

	"github.com/techmaster-vietnam/rolekit/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create tạo mới user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID lấy user theo ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail lấy user theo email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update cập nhật user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateRoles chỉ ghi đè cột roles của user
// Dùng UpdateColumn để không chạy hook và không đụng các cột khác
func (r *UserRepository) UpdateRoles(id string, roles []string) error {
	data, err := json.Marshal(roles)
	if err != nil {
		return err
	}
	result := r.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("roles", datatypes.JSON(data))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List lấy danh sách users với pagination
func (r *UserRepository) List(offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}
