package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/middleware"
	"github.com/techmaster-vietnam/rolekit/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles login request
// POST /api/auth/login
// Trả về token trong JSON và đồng thời set cookie HttpOnly cho trình duyệt
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return goerrorkit.NewValidationError("Dữ liệu không hợp lệ", map[string]interface{}{
			"error": err.Error(),
		})
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		return err
	}

	cfg := h.authService.GetConfig()
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    resp.Token,
		Expires:  time.Now().Add(cfg.JWT.Expiration),
		HTTPOnly: true,
		Secure:   cfg.Server.CookieSecure,
		SameSite: "Strict",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// Logout xóa cookie token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	cfg := h.authService.GetConfig()
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   cfg.Server.CookieSecure,
		SameSite: "Strict",
	})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Đăng xuất thành công",
	})
}

// GetProfile handles get profile request
// GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return goerrorkit.NewAuthError(401, "Yêu cầu đăng nhập")
	}

	user, err := h.authService.Profile(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}
