package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/router"
	"github.com/techmaster-vietnam/rolekit/service"
)

// RouteHandler liệt kê các route đã khai báo và kiểm tra quyền gọi route
type RouteHandler struct {
	registry          *router.RouteRegistry
	permissionService *service.PermissionService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(registry *router.RouteRegistry, permissionService *service.PermissionService) *RouteHandler {
	return &RouteHandler{
		registry:          registry,
		permissionService: permissionService,
	}
}

// ListRoutes trả về tất cả routes trong registry
// GET /api/routes
func (h *RouteHandler) ListRoutes(c *fiber.Ctx) error {
	routes := h.registry.GetAllRoutes()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    routes,
		"total":   len(routes),
	})
}

// CheckRoute cho biết user hiện tại có được gọi route không
// GET /api/me/routes/check?method=GET&path=/api/projects/archive
func (h *RouteHandler) CheckRoute(c *fiber.Ctx) error {
	method := strings.ToUpper(c.Query("method", "GET"))
	path := c.Query("path")
	if path == "" {
		return goerrorkit.NewValidationError("Thiếu tham số path", map[string]interface{}{
			"field": "path",
		})
	}

	// Registry lưu path không có "/" cuối, trừ path gốc
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		path = trimmed
	} else {
		path = "/"
	}

	route := h.registry.FindRoute(method, path)
	if route == nil {
		return goerrorkit.NewBusinessError(404, "Route không tồn tại").WithData(map[string]interface{}{
			"method": method,
			"path":   path,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"method":      method,
			"path":        route.FullPath,
			"access_type": route.AccessType,
			"allowed":     route.Permits(h.permissionService, currentUser(c)),
		},
	})
}
