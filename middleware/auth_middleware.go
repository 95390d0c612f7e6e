package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/config"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/models"
	"github.com/techmaster-vietnam/rolekit/utils"
	"gorm.io/gorm"
)

// AuthMiddleware xác thực JWT và nạp user vào context
type AuthMiddleware struct {
	config   *config.Config
	userRepo core.UserRepositoryInterface
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(cfg *config.Config, userRepo core.UserRepositoryInterface) *AuthMiddleware {
	return &AuthMiddleware{
		config:   cfg,
		userRepo: userRepo,
	}
}

// RequireAuth middleware requires authentication
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return goerrorkit.NewAuthError(401, "Token không được cung cấp")
		}

		user, err := m.authenticate(token)
		if err != nil {
			return err
		}

		setUser(c, user)
		return c.Next()
	}
}

// OptionalAuth nạp user nếu có token hợp lệ, ngược lại request đi tiếp như khách
// Token sai, hết hạn hoặc user không còn tồn tại được coi là khách;
// tài khoản bị vô hiệu hóa và lỗi hệ thống vẫn trả về lỗi
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Next()
		}

		user, err := m.authenticate(token)
		if err != nil {
			if isUnauthenticated(err) {
				return c.Next()
			}
			return err
		}

		setUser(c, user)
		return c.Next()
	}
}

func isUnauthenticated(err error) bool {
	var appErr *goerrorkit.AppError
	return errors.As(err, &appErr) && appErr.Type == goerrorkit.AuthError && appErr.Code == 401
}

// authenticate validate token và lấy snapshot user mới nhất từ repository
// Roles luôn lấy từ repository, không tin roles trong token vì có thể đã bị thay đổi sau khi login
func (m *AuthMiddleware) authenticate(token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, m.config.JWT.Secret)
	if err != nil {
		return nil, goerrorkit.NewAuthError(401, "Token không hợp lệ").WithData(map[string]interface{}{
			"error": err.Error(),
		})
	}

	user, err := m.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewAuthError(401, "Người dùng không tồn tại").WithData(map[string]interface{}{
				"user_id": claims.UserID,
			})
		}
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy thông tin người dùng").WithData(map[string]interface{}{
			"user_id": claims.UserID,
		})
	}

	if !user.IsActive() {
		return nil, goerrorkit.NewAuthError(403, "Tài khoản đã bị vô hiệu hóa").WithData(map[string]interface{}{
			"user_id": user.GetID(),
		})
	}
	return user, nil
}

// extractToken extracts token from Authorization header or cookie
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return c.Cookies("token")
}

func setUser(c *fiber.Ctx, user *models.User) {
	c.Locals("user", user)
	c.Locals("userID", user.GetID())
}

// GetUserFromContext gets user from context
func GetUserFromContext(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// GetUserIDFromContext gets user ID from context
func GetUserIDFromContext(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	return userID, ok
}
