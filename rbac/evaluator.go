// Package rbac chứa policy engine quyết định user được thấy và làm gì trên UI.
//
// Mọi hàm đều là pure function và total: user nil, roles chưa load, danh sách
// rỗng hay tên role lạ đều cho ra một kết quả xác định, không bao giờ panic.
// Kết quả được tính lại từ snapshot User ở mỗi lần gọi, không có cache.
package rbac

import (
	"slices"

	"github.com/techmaster-vietnam/rolekit/core"
)

// Evaluator trả lời các câu hỏi phân quyền dựa trên role của user.
// Evaluator không có state nên có thể dùng chung giữa nhiều goroutine.
type Evaluator struct{}

// NewEvaluator tạo mới Evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// roleNames trả về roles của user, nil nếu user nil hoặc roles chưa được load
func roleNames(user core.RoleHolder) []string {
	if user == nil {
		return nil
	}
	return user.GetRoleNames()
}

// HasRole kiểm tra user có role roleName không (so khớp chính xác, phân biệt hoa thường)
func (e *Evaluator) HasRole(user core.RoleHolder, roleName string) bool {
	roles := roleNames(user)
	if len(roles) == 0 {
		return false
	}
	return slices.Contains(roles, roleName)
}

// HasAnyRole kiểm tra user có ít nhất một role trong roleNames.
// roleNames rỗng luôn trả về false.
func (e *Evaluator) HasAnyRole(user core.RoleHolder, roleNames []string) bool {
	for _, name := range roleNames {
		if e.HasRole(user, name) {
			return true
		}
	}
	return false
}

// HasAllRoles kiểm tra user có đủ tất cả role trong roleNames.
// roleNames rỗng luôn trả về true.
func (e *Evaluator) HasAllRoles(user core.RoleHolder, roleNames []string) bool {
	for _, name := range roleNames {
		if !e.HasRole(user, name) {
			return false
		}
	}
	return true
}

// highestRank trả về rank cao nhất trong roles; role lạ có rank -1
func highestRank(roles []string) int {
	highest := -1
	for _, name := range roles {
		if rank := RankOf(name); rank > highest {
			highest = rank
		}
	}
	return highest
}

// HasMinimumRole kiểm tra role cao nhất của user có đạt tối thiểu minimumRole không.
// User không có role nào luôn bị từ chối, kể cả khi minimumRole là staff.
// minimumRole không nhận diện được có rank -1 nên mọi user có ít nhất một role đều đạt.
func (e *Evaluator) HasMinimumRole(user core.RoleHolder, minimumRole string) bool {
	roles := roleNames(user)
	if len(roles) == 0 {
		return false
	}
	return highestRank(roles) >= RankOf(minimumRole)
}

// IsStaff tương đương HasMinimumRole(user, staff)
func (e *Evaluator) IsStaff(user core.RoleHolder) bool {
	return e.HasMinimumRole(user, RoleStaff)
}

// IsManager kiểm tra user có đúng role manager.
// Đây là kiểm tra membership, không phải rank: user chỉ có admin thì không phải manager.
func (e *Evaluator) IsManager(user core.RoleHolder) bool {
	return e.HasRole(user, RoleManager)
}

// HasManagerRole giống IsManager
func (e *Evaluator) HasManagerRole(user core.RoleHolder) bool {
	return e.HasRole(user, RoleManager)
}

// IsAdmin kiểm tra user có đúng role admin
func (e *Evaluator) IsAdmin(user core.RoleHolder) bool {
	return e.HasRole(user, RoleAdmin)
}

// CanAdminManage: admin chỉ có quyền quản lý (ví dụ tạo project) khi có thêm manager hoặc staff.
// Admin đơn thuần chỉ được xem.
func (e *Evaluator) CanAdminManage(user core.RoleHolder) bool {
	return e.IsAdmin(user) && (e.HasRole(user, RoleManager) || e.HasRole(user, RoleStaff))
}

// GetRoleName chuyển level sang tên role, level lạ trả về "unknown"
func (e *Evaluator) GetRoleName(roleLevel int) string {
	if name, ok := RoleLevelToName[roleLevel]; ok {
		return name
	}
	return UnknownRoleName
}

// GetUserRoleNames trả về roles của user theo đúng thứ tự lưu trữ, slice rỗng nếu chưa có
func (e *Evaluator) GetUserRoleNames(user core.RoleHolder) []string {
	roles := roleNames(user)
	if roles == nil {
		return []string{}
	}
	return slices.Clone(roles)
}

// GetHighestRoleName trả về tên role cao nhất mà user có.
// User nil, chưa có role hoặc chỉ có role lạ mặc định là staff.
func (e *Evaluator) GetHighestRoleName(user core.RoleHolder) string {
	rank := highestRank(roleNames(user))
	if rank < 0 {
		return RoleStaff
	}
	return RoleHierarchy[rank]
}

// CanAccessFeature kiểm tra quyền truy cập feature theo danh sách role yêu cầu.
// requireAll = true dùng HasAllRoles, ngược lại dùng HasAnyRole.
// User nil hoặc roles chưa load luôn bị từ chối.
func (e *Evaluator) CanAccessFeature(user core.RoleHolder, requiredRoles []string, requireAll bool) bool {
	if roleNames(user) == nil {
		return false
	}
	if requireAll {
		return e.HasAllRoles(user, requiredRoles)
	}
	return e.HasAnyRole(user, requiredRoles)
}
