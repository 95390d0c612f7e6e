package service

import (
	"errors"
	"math"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/models"
	"github.com/techmaster-vietnam/rolekit/rbac"
	"github.com/techmaster-vietnam/rolekit/utils"
	"gorm.io/gorm"
)

// UserRoleService quản lý việc gán role cho user
type UserRoleService struct {
	userRepo  core.UserRepositoryInterface
	evaluator *rbac.Evaluator
}

// NewUserRoleService tạo mới UserRoleService
func NewUserRoleService(userRepo core.UserRepositoryInterface, evaluator *rbac.Evaluator) *UserRoleService {
	return &UserRoleService{
		userRepo:  userRepo,
		evaluator: evaluator,
	}
}

// UpdateUserRolesRequest represents update user roles request
// Mỗi phần tử có thể là tên role ("manager") hoặc level (2)
type UpdateUserRolesRequest struct {
	Roles []interface{} `json:"roles"`
}

// ResolveRoleNames chuyển input hỗn hợp tên/level thành danh sách tên role chuẩn, đã loại trùng
func ResolveRoleNames(items []interface{}) ([]string, error) {
	names := make([]string, 0, len(items))
	var invalid []interface{}

	for _, item := range items {
		switch v := item.(type) {
		case string:
			if !rbac.IsKnownRole(v) {
				invalid = append(invalid, v)
				continue
			}
			names = append(names, v)
		case float64:
			if v != math.Trunc(v) {
				invalid = append(invalid, v)
				continue
			}
			converted, bad := utils.RoleLevelsToNames([]int{int(v)})
			if len(bad) > 0 {
				invalid = append(invalid, v)
				continue
			}
			names = append(names, converted...)
		case int:
			converted, bad := utils.RoleLevelsToNames([]int{v})
			if len(bad) > 0 {
				invalid = append(invalid, v)
				continue
			}
			names = append(names, converted...)
		default:
			invalid = append(invalid, v)
		}
	}

	if len(invalid) > 0 {
		return nil, goerrorkit.NewValidationError("Role không hợp lệ", map[string]interface{}{
			"field":         "roles",
			"invalid_roles": invalid,
			"valid_roles":   rbac.RoleHierarchy,
		})
	}
	return utils.DedupeRoleNames(names), nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UserRoleSummary là một dòng trong danh sách user kèm roles
type UserRoleSummary struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	Active     bool     `json:"is_active"`
	Roles      []string `json:"roles"`
	RoleLevels []int    `json:"role_levels"`
}

// ListUsers trả về một trang users cùng roles và level tương ứng
// page bắt đầu từ 1; pageSize ngoài khoảng hợp lệ được đưa về mặc định hoặc giới hạn
func (s *UserRoleService) ListUsers(page, pageSize int) ([]UserRoleSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	users, total, err := s.userRepo.List((page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy danh sách người dùng").WithData(map[string]interface{}{
			"page":      page,
			"page_size": pageSize,
		})
	}

	items := make([]UserRoleSummary, 0, len(users))
	for _, user := range users {
		names := s.evaluator.GetUserRoleNames(user)
		items = append(items, UserRoleSummary{
			ID:         user.GetID(),
			Email:      user.Email,
			FullName:   user.FullName,
			Active:     user.IsActive(),
			Roles:      names,
			RoleLevels: utils.RoleNamesToLevels(names),
		})
	}
	return items, total, nil
}

// GetUserRoles lấy roles hiện tại của user
func (s *UserRoleService) GetUserRoles(userID string) ([]string, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.GetUserRoleNames(user), nil
}

// UpdateUserRoles ghi đè toàn bộ roles của user
// Chỉ admin có kèm manager hoặc staff mới được quản lý role; admin đơn thuần chỉ được xem
func (s *UserRoleService) UpdateUserRoles(actor core.RoleHolder, userID string, req UpdateUserRolesRequest) (*models.User, error) {
	if !s.evaluator.CanAdminManage(actor) {
		return nil, goerrorkit.NewAuthError(403, "Không có quyền thay đổi role của người dùng").WithData(map[string]interface{}{
			"actor_roles": s.evaluator.GetUserRoleNames(actor),
		})
	}

	if req.Roles == nil {
		return nil, goerrorkit.NewValidationError("Danh sách roles là bắt buộc", map[string]interface{}{
			"field": "roles",
		})
	}

	roles, err := ResolveRoleNames(req.Roles)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRoles(userID, roles); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi cập nhật roles").WithData(map[string]interface{}{
			"user_id": userID,
			"roles":   roles,
		})
	}

	return user.WithRoles(roles), nil
}

// loadUser lấy user và ghi log nếu user đang giữ role ngoài taxonomy
func (s *UserRoleService) loadUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewBusinessError(404, "Người dùng không tồn tại").WithData(map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy người dùng").WithData(map[string]interface{}{
			"user_id": userID,
		})
	}

	if unknown := utils.UnknownRoleNames(user.GetRoleNames()); len(unknown) > 0 {
		goerrorkit.LogError(goerrorkit.NewBusinessError(422, "User giữ role không thuộc taxonomy").WithData(map[string]interface{}{
			"user_id":       userID,
			"unknown_roles": unknown,
		}), "UserRoleService.loadUser")
	}
	return user, nil
}
