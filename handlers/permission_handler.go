package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/middleware"
	"github.com/techmaster-vietnam/rolekit/service"
)

// PermissionHandler trả về các quyết định phân quyền cho UI
type PermissionHandler struct {
	permissionService *service.PermissionService
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(permissionService *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// currentUser lấy user từ context, khách trả về nil
func currentUser(c *fiber.Ctx) core.RoleHolder {
	if user, ok := middleware.GetUserFromContext(c); ok {
		return user
	}
	return nil
}

// GetMyPermissions trả về snapshot quyền của user hiện tại
// GET /api/me/permissions
// Khách (chưa đăng nhập) vẫn nhận được snapshot với mọi quyền là false
func (h *PermissionHandler) GetMyPermissions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.permissionService.Evaluate(currentUser(c)),
	})
}

// CheckFeature kiểm tra quyền truy cập một feature
// GET /api/me/features/:key
func (h *PermissionHandler) CheckFeature(c *fiber.Ctx) error {
	key := c.Params("key")
	if _, ok := h.permissionService.Feature(key); !ok {
		return goerrorkit.NewBusinessError(404, "Feature không tồn tại").WithData(map[string]interface{}{
			"feature": key,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"feature": key,
			"allowed": h.permissionService.CanAccess(currentUser(c), key),
		},
	})
}

// ListRoles trả về taxonomy role
// GET /api/roles
func (h *PermissionHandler) ListRoles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.permissionService.ListRoles(),
	})
}

// ListFeatures trả về catalogue feature
// GET /api/features
func (h *PermissionHandler) ListFeatures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.permissionService.Features(),
	})
}
