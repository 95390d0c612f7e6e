package service

import (
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/models"
	"github.com/techmaster-vietnam/rolekit/rbac"
)

// Permissions là snapshot mọi quyết định phân quyền mà UI cần cho một user
type Permissions struct {
	Roles            []string        `json:"roles"`
	HighestRole      string          `json:"highest_role"`
	IsStaff          bool            `json:"is_staff"`
	IsManager        bool            `json:"is_manager"`
	IsAdmin          bool            `json:"is_admin"`
	CanAdminManage   bool            `json:"can_admin_manage"`
	CanCreateProject bool            `json:"can_create_project"`
	Features         map[string]bool `json:"features"`
}

// PermissionService tính quyền truy cập feature dựa trên Evaluator và catalogue feature
type PermissionService struct {
	evaluator *rbac.Evaluator
	features  map[string]models.Feature
	order     []string // Giữ thứ tự khai báo để liệt kê ổn định
}

// NewPermissionService tạo mới PermissionService
// Feature khai báo sau sẽ ghi đè feature cùng key khai báo trước
func NewPermissionService(evaluator *rbac.Evaluator, features []models.Feature) *PermissionService {
	s := &PermissionService{
		evaluator: evaluator,
		features:  make(map[string]models.Feature, len(features)),
		order:     make([]string, 0, len(features)),
	}
	for _, f := range features {
		if _, exists := s.features[f.Key]; !exists {
			s.order = append(s.order, f.Key)
		}
		s.features[f.Key] = f
	}
	return s
}

// Evaluator trả về evaluator đang dùng
func (s *PermissionService) Evaluator() *rbac.Evaluator {
	return s.evaluator
}

// Evaluate tính toàn bộ quyết định phân quyền cho user
func (s *PermissionService) Evaluate(user core.RoleHolder) Permissions {
	e := s.evaluator
	features := make(map[string]bool, len(s.order))
	for _, key := range s.order {
		features[key] = s.CanAccess(user, key)
	}

	return Permissions{
		Roles:            e.GetUserRoleNames(user),
		HighestRole:      e.GetHighestRoleName(user),
		IsStaff:          e.IsStaff(user),
		IsManager:        e.IsManager(user),
		IsAdmin:          e.IsAdmin(user),
		CanAdminManage:   e.CanAdminManage(user),
		CanCreateProject: s.CanCreateProject(user),
		Features:         features,
	}
}

// CanCreateProject: manager, hoặc admin kèm manager/staff
func (s *PermissionService) CanCreateProject(user core.RoleHolder) bool {
	return s.evaluator.IsManager(user) || s.evaluator.CanAdminManage(user)
}

// CanAccess kiểm tra user có truy cập được feature không, feature không tồn tại luôn trả về false
func (s *PermissionService) CanAccess(user core.RoleHolder, featureKey string) bool {
	f, ok := s.features[featureKey]
	if !ok {
		return false
	}
	return s.evaluator.CanAccessFeature(user, f.Roles, f.RequireAll)
}

// Feature lấy định nghĩa feature theo key
func (s *PermissionService) Feature(key string) (models.Feature, bool) {
	f, ok := s.features[key]
	return f, ok
}

// Features liệt kê catalogue feature theo thứ tự khai báo
func (s *PermissionService) Features() []models.Feature {
	result := make([]models.Feature, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.features[key])
	}
	return result
}

// ListRoles trả về taxonomy role theo thứ tự hierarchy
func (s *PermissionService) ListRoles() []models.Role {
	roles := make([]models.Role, 0, len(rbac.RoleHierarchy))
	for rank, name := range rbac.RoleHierarchy {
		roles = append(roles, models.Role{
			Level: rbac.RoleNameToLevel[name],
			Name:  name,
			Rank:  rank,
		})
	}
	return roles
}
