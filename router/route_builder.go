package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/middleware"
)

// RouteBuilder cung cấp fluent API để cấu hình route và phân quyền
type RouteBuilder struct {
	metadata *RouteMetadata
	router   fiber.Router
	registry *RouteRegistry
	authMw   *middleware.AuthMiddleware
	gate     *middleware.RoleGate
}

// Public đánh dấu route là public (không cần authentication)
func (rb *RouteBuilder) Public() *RouteBuilder {
	rb.metadata.AccessType = AccessPublic
	rb.metadata.Roles = []string{}
	return rb
}

// Authenticated cho phép mọi user đã đăng nhập
func (rb *RouteBuilder) Authenticated() *RouteBuilder {
	rb.metadata.AccessType = AccessAuthenticated
	rb.metadata.Roles = []string{}
	return rb
}

// Allow cho phép user có ít nhất một trong các roles (roles rỗng = mọi user đã đăng nhập)
func (rb *RouteBuilder) Allow(roles ...string) *RouteBuilder {
	rb.metadata.AccessType = AccessAnyRole
	rb.metadata.Roles = roles
	return rb
}

// AllowAll chỉ cho phép user có đủ tất cả các roles
func (rb *RouteBuilder) AllowAll(roles ...string) *RouteBuilder {
	rb.metadata.AccessType = AccessAllRoles
	rb.metadata.Roles = roles
	return rb
}

// MinimumRole cho phép user có role cao nhất đạt tối thiểu role
func (rb *RouteBuilder) MinimumRole(role string) *RouteBuilder {
	rb.metadata.AccessType = AccessMinimumRole
	rb.metadata.MinimumRole = role
	return rb
}

// Feature bảo vệ route theo feature trong catalogue
func (rb *RouteBuilder) Feature(key string) *RouteBuilder {
	rb.metadata.AccessType = AccessFeature
	rb.metadata.Feature = key
	return rb
}

// AdminManage chỉ cho phép admin có kèm manager hoặc staff
func (rb *RouteBuilder) AdminManage() *RouteBuilder {
	rb.metadata.AccessType = AccessAdminManage
	return rb
}

// Require bảo vệ route bằng hàm kiểm tra riêng, name hiển thị trong registry và metrics
func (rb *RouteBuilder) Require(name string, check func(core.RoleHolder) bool) *RouteBuilder {
	rb.metadata.AccessType = AccessCustom
	rb.metadata.Check = name
	rb.metadata.checkFn = check
	return rb
}

// Description thêm mô tả cho route
func (rb *RouteBuilder) Description(desc string) *RouteBuilder {
	rb.metadata.Description = desc
	return rb
}

// Register hoàn tất việc đăng ký route và áp dụng middleware phù hợp
// Route chưa khai báo quyền được coi là Authenticated
// Route không public nạp user bằng OptionalAuth để RoleGate quyết định 401, fallback hay 403
func (rb *RouteBuilder) Register() {
	if rb.metadata.AccessType == "" {
		rb.metadata.AccessType = AccessAuthenticated
	}

	rb.registry.Register(rb.metadata)

	if rb.metadata.AccessType == AccessPublic {
		rb.router.Add(rb.metadata.Method, rb.metadata.Path, rb.metadata.Handler)
		return
	}

	metadata := rb.metadata
	permissions := rb.gate.Permissions()
	gateName := strings.ToLower(string(metadata.AccessType))
	data := map[string]interface{}{
		"access_type": string(metadata.AccessType),
	}
	if metadata.AccessType == AccessCustom {
		gateName = metadata.Check
		data["required"] = metadata.Check
	}

	rb.router.Add(
		metadata.Method,
		metadata.Path,
		rb.authMw.OptionalAuth(),
		rb.gate.Require(gateName, func(user core.RoleHolder) bool {
			return metadata.Permits(permissions, user)
		}, data),
		metadata.Handler,
	)
}
