package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/metrics"
	"github.com/techmaster-vietnam/rolekit/rbac"
	"github.com/techmaster-vietnam/rolekit/service"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/techmaster-vietnam/rolekit/middleware"

// Tên gate dùng cho metrics và tracing
const (
	GateRole        = "role"
	GateAnyRole     = "any_role"
	GateAllRoles    = "all_roles"
	GateMinimumRole = "minimum_role"
	GateAdminManage = "admin_manage"
	GateFeature     = "feature"
)

// RoleGate là middleware bọc handler: cho đi tiếp khi Evaluator cho phép,
// ngược lại chạy fallback (nếu có) hoặc trả lỗi 401/403
type RoleGate struct {
	evaluator   *rbac.Evaluator
	permissions *service.PermissionService
	fallback    fiber.Handler
	metrics     *metrics.GateMetrics
	tracer      trace.Tracer
}

// NewRoleGate tạo mới RoleGate
func NewRoleGate(permissions *service.PermissionService) *RoleGate {
	return &RoleGate{
		evaluator:   permissions.Evaluator(),
		permissions: permissions,
		tracer:      otel.Tracer(tracerName),
	}
}

// WithFallback trả về bản sao RoleGate dùng fallback thay cho lỗi khi bị từ chối
func (g *RoleGate) WithFallback(fallback fiber.Handler) *RoleGate {
	clone := *g
	clone.fallback = fallback
	return &clone
}

// WithMetrics trả về bản sao RoleGate ghi nhận quyết định vào Prometheus
func (g *RoleGate) WithMetrics(m *metrics.GateMetrics) *RoleGate {
	clone := *g
	clone.metrics = m
	return &clone
}

// RequireRole yêu cầu user có đúng role
func (g *RoleGate) RequireRole(role string) fiber.Handler {
	return g.gate(GateRole, func(user core.RoleHolder) bool {
		return g.evaluator.HasRole(user, role)
	}, map[string]interface{}{"required_role": role})
}

// RequireAnyRole yêu cầu user có ít nhất một role
func (g *RoleGate) RequireAnyRole(roles ...string) fiber.Handler {
	return g.gate(GateAnyRole, func(user core.RoleHolder) bool {
		return g.evaluator.HasAnyRole(user, roles)
	}, map[string]interface{}{"required_any": roles})
}

// RequireAllRoles yêu cầu user có tất cả roles
func (g *RoleGate) RequireAllRoles(roles ...string) fiber.Handler {
	return g.gate(GateAllRoles, func(user core.RoleHolder) bool {
		return g.evaluator.HasAllRoles(user, roles)
	}, map[string]interface{}{"required_all": roles})
}

// RequireMinimumRole yêu cầu role cao nhất của user đạt tối thiểu minimumRole
func (g *RoleGate) RequireMinimumRole(minimumRole string) fiber.Handler {
	return g.gate(GateMinimumRole, func(user core.RoleHolder) bool {
		return g.evaluator.HasMinimumRole(user, minimumRole)
	}, map[string]interface{}{"minimum_role": minimumRole})
}

// RequireAdminManage yêu cầu admin có kèm manager hoặc staff
func (g *RoleGate) RequireAdminManage() fiber.Handler {
	return g.gate(GateAdminManage, g.evaluator.CanAdminManage, map[string]interface{}{"required": "admin_manage"})
}

// RequireFeature yêu cầu quyền truy cập feature trong catalogue
func (g *RoleGate) RequireFeature(featureKey string) fiber.Handler {
	return g.gate(GateFeature, func(user core.RoleHolder) bool {
		return g.permissions.CanAccess(user, featureKey)
	}, map[string]interface{}{"feature": featureKey})
}

// Permissions trả về PermissionService mà gate đang dùng
func (g *RoleGate) Permissions() *service.PermissionService {
	return g.permissions
}

// Require tạo gate từ một check tùy ý, data được đính kèm vào lỗi 403
func (g *RoleGate) Require(name string, check func(user core.RoleHolder) bool, data map[string]interface{}) fiber.Handler {
	return g.gate(name, check, data)
}

// gate chạy check trên user hiện tại; thiếu user được coi là user nil
func (g *RoleGate) gate(name string, check func(user core.RoleHolder) bool, data map[string]interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, span := g.tracer.Start(c.UserContext(), "rolekit.gate."+name)
		defer span.End()
		c.SetUserContext(ctx)

		user, ok := GetUserFromContext(c)

		var holder core.RoleHolder
		if ok {
			holder = user
		}
		allowed := check(holder)

		g.metrics.Observe(name, allowed)
		span.SetAttributes(
			attribute.String("rolekit.gate", name),
			attribute.Bool("rolekit.authenticated", ok),
			attribute.Bool("rolekit.allowed", allowed),
		)

		if allowed {
			return c.Next()
		}

		if g.fallback != nil {
			return g.fallback(c)
		}

		if !ok {
			return goerrorkit.NewAuthError(401, "Yêu cầu đăng nhập")
		}

		details := make(map[string]interface{}, len(data)+4)
		for k, v := range data {
			details[k] = v
		}
		details["gate"] = name
		details["method"] = c.Method()
		details["path"] = c.Path()
		details["user_roles"] = g.evaluator.GetUserRoleNames(user)
		return goerrorkit.NewAuthError(403, "Không có quyền truy cập").WithData(details)
	}
}
