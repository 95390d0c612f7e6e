package core

import "github.com/techmaster-vietnam/rolekit/models"

// RoleHolder là bất kỳ đối tượng nào mang danh sách role của user
// GetRoleNames trả về nil khi roles chưa được load, slice rỗng khi user không có role nào
type RoleHolder interface {
	GetRoleNames() []string
}

// UserRepositoryInterface định nghĩa interface cho User Repository
// Cho phép mock repository trong tests
type UserRepositoryInterface interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateRoles(id string, roles []string) error
	List(offset, limit int) ([]*models.User, int64, error)
}
