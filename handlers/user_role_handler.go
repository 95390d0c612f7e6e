package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/middleware"
	"github.com/techmaster-vietnam/rolekit/service"
)

// UserRoleHandler handles user role endpoints
type UserRoleHandler struct {
	userRoleService *service.UserRoleService
}

// NewUserRoleHandler creates a new user role handler
func NewUserRoleHandler(userRoleService *service.UserRoleService) *UserRoleHandler {
	return &UserRoleHandler{userRoleService: userRoleService}
}

// parseUserID validate :id là UUID
func parseUserID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", goerrorkit.NewValidationError("ID người dùng không hợp lệ", map[string]interface{}{
			"id": id,
		})
	}
	return id, nil
}

// ListUsers handles list users request
// GET /api/users?page=1&page_size=20
func (h *UserRoleHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	users, total, err := h.userRoleService.ListUsers(page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"total":   total,
	})
}

// GetUserRoles handles get user roles request
// GET /api/users/:id/roles
func (h *UserRoleHandler) GetUserRoles(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	roles, err := h.userRoleService.GetUserRoles(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    roles,
	})
}

// UpdateUserRoles handles update user roles request
// PUT /api/users/:id/roles
// Body: {"roles": ["manager", "staff"]} hoặc {"roles": [2, 1]}
func (h *UserRoleHandler) UpdateUserRoles(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req service.UpdateUserRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return goerrorkit.NewValidationError("Dữ liệu không hợp lệ", map[string]interface{}{
			"error": err.Error(),
		})
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		return goerrorkit.NewAuthError(401, "Yêu cầu đăng nhập")
	}

	user, err := h.userRoleService.UpdateUserRoles(actor, userID, req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}
