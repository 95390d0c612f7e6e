package service

import (
	"errors"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/config"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/models"
	"github.com/techmaster-vietnam/rolekit/utils"
	"gorm.io/gorm"
)

// AuthService xử lý đăng nhập và lấy profile
type AuthService struct {
	userRepo core.UserRepositoryInterface
	config   *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo core.UserRepositoryInterface, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		config:   cfg,
	}
}

// GetConfig trả về config của service (để handler có thể truy cập)
func (s *AuthService) GetConfig() *config.Config {
	return s.config
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates a user and returns a JWT token carrying role names
func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewAuthError(401, "Email hoặc mật khẩu không đúng")
		}
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi đăng nhập")
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, goerrorkit.NewAuthError(401, "Email hoặc mật khẩu không đúng")
	}

	if !user.IsActive() {
		return nil, goerrorkit.NewAuthError(403, "Tài khoản đã bị vô hiệu hóa").WithData(map[string]interface{}{
			"user_id": user.GetID(),
		})
	}

	token, err := utils.GenerateToken(
		user.GetID(),
		user.GetEmail(),
		user.GetRoleNames(),
		s.config.JWT.Secret,
		s.config.JWT.Expiration,
	)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi tạo token")
	}

	return &LoginResponse{Token: token, User: user}, nil
}

// Profile lấy thông tin user theo ID
func (s *AuthService) Profile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerrorkit.NewBusinessError(404, "Người dùng không tồn tại").WithData(map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, goerrorkit.WrapWithMessage(err, "Lỗi khi lấy thông tin người dùng")
	}
	return user, nil
}
