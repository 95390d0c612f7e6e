package rolekit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/rolekit/config"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/database"
	"github.com/techmaster-vietnam/rolekit/handlers"
	"github.com/techmaster-vietnam/rolekit/metrics"
	"github.com/techmaster-vietnam/rolekit/middleware"
	"github.com/techmaster-vietnam/rolekit/models"
	"github.com/techmaster-vietnam/rolekit/rbac"
	"github.com/techmaster-vietnam/rolekit/repository"
	"github.com/techmaster-vietnam/rolekit/router"
	"github.com/techmaster-vietnam/rolekit/service"
	"gorm.io/gorm"
)

// Config là alias cho config.Config để tránh conflict với package config khác
type Config = config.Config

// Models - Export các models
type (
	User    = models.User
	Role    = models.Role
	Feature = models.Feature
)

// Interfaces - Export interfaces
type (
	RoleHolder              = core.RoleHolder
	UserRepositoryInterface = core.UserRepositoryInterface
)

// Role constants
const (
	RoleStaff   = rbac.RoleStaff
	RoleManager = rbac.RoleManager
	RoleAdmin   = rbac.RoleAdmin
)

// AccessType constants
const (
	AccessPublic        = router.AccessPublic
	AccessAuthenticated = router.AccessAuthenticated
	AccessAnyRole       = router.AccessAnyRole
	AccessAllRoles      = router.AccessAllRoles
	AccessMinimumRole   = router.AccessMinimumRole
	AccessFeature       = router.AccessFeature
	AccessAdminManage   = router.AccessAdminManage
	AccessCustom        = router.AccessCustom
)

// RoleKit là main struct chứa tất cả dependencies
type RoleKit struct {
	App    *fiber.App
	DB     *gorm.DB
	Config *Config

	// Evaluator
	Evaluator *rbac.Evaluator

	// Repositories
	UserRepo core.UserRepositoryInterface

	// Services
	AuthService       *service.AuthService
	PermissionService *service.PermissionService
	UserRoleService   *service.UserRoleService

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
	RoleGate       *middleware.RoleGate

	// Handlers
	AuthHandler       *handlers.AuthHandler
	PermissionHandler *handlers.PermissionHandler
	UserRoleHandler   *handlers.UserRoleHandler
	RouteHandler      *handlers.RouteHandler

	// Route registry
	RouteRegistry *router.RouteRegistry
}

// RoleKitBuilder là builder để tạo RoleKit
type RoleKitBuilder struct {
	app      *fiber.App
	db       *gorm.DB
	config   *Config
	userRepo core.UserRepositoryInterface
	features []models.Feature
	fallback fiber.Handler
	metrics  *metrics.GateMetrics
}

// New tạo mới RoleKitBuilder
func New(app *fiber.App, db *gorm.DB) *RoleKitBuilder {
	return &RoleKitBuilder{
		app: app,
		db:  db,
	}
}

// WithConfig set config cho builder
func (b *RoleKitBuilder) WithConfig(cfg *Config) *RoleKitBuilder {
	b.config = cfg
	return b
}

// WithUserRepository dùng repository có sẵn thay cho repository gorm (không auto migrate)
func (b *RoleKitBuilder) WithUserRepository(repo core.UserRepositoryInterface) *RoleKitBuilder {
	b.userRepo = repo
	return b
}

// WithFeatures bổ sung hoặc ghi đè feature trong catalogue mặc định
func (b *RoleKitBuilder) WithFeatures(features ...models.Feature) *RoleKitBuilder {
	b.features = append(b.features, features...)
	return b
}

// WithFallback set handler chạy khi RoleGate từ chối request
func (b *RoleKitBuilder) WithFallback(fallback fiber.Handler) *RoleKitBuilder {
	b.fallback = fallback
	return b
}

// WithMetrics ghi nhận quyết định của RoleGate vào Prometheus
func (b *RoleKitBuilder) WithMetrics(m *metrics.GateMetrics) *RoleKitBuilder {
	b.metrics = m
	return b
}

// Initialize khởi tạo RoleKit với tất cả dependencies
func (b *RoleKitBuilder) Initialize() (*RoleKit, error) {
	// Load config nếu chưa có
	if b.config == nil {
		b.config = LoadConfig()
	}

	userRepo := b.userRepo
	if userRepo == nil {
		if err := database.Migrate(b.db); err != nil {
			return nil, err
		}
		userRepo = repository.NewUserRepository(b.db)
	}

	evaluator := rbac.NewEvaluator()
	features := append(models.DefaultFeatures(), b.features...)

	// Initialize services
	authService := service.NewAuthService(userRepo, b.config)
	permissionService := service.NewPermissionService(evaluator, features)
	userRoleService := service.NewUserRoleService(userRepo, evaluator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(b.config, userRepo)
	roleGate := middleware.NewRoleGate(permissionService)
	if b.fallback != nil {
		roleGate = roleGate.WithFallback(b.fallback)
	}
	if b.metrics != nil {
		roleGate = roleGate.WithMetrics(b.metrics)
	}

	routeRegistry := router.NewRouteRegistry()

	return &RoleKit{
		App:               b.app,
		DB:                b.db,
		Config:            b.config,
		Evaluator:         evaluator,
		UserRepo:          userRepo,
		AuthService:       authService,
		PermissionService: permissionService,
		UserRoleService:   userRoleService,
		AuthMiddleware:    authMiddleware,
		RoleGate:          roleGate,
		AuthHandler:       handlers.NewAuthHandler(authService),
		PermissionHandler: handlers.NewPermissionHandler(permissionService),
		UserRoleHandler:   handlers.NewUserRoleHandler(userRoleService),
		RouteHandler:      handlers.NewRouteHandler(routeRegistry, permissionService),
		RouteRegistry:     routeRegistry,
	}, nil
}

// Router trả về AuthRouter gắn với app để khai báo routes có phân quyền
func (rk *RoleKit) Router() *router.AuthRouter {
	return router.NewAuthRouter(rk.App, rk.RouteRegistry, rk.AuthMiddleware, rk.RoleGate)
}

// SetupRoutes đăng ký các routes có sẵn của rolekit dưới /api
func (rk *RoleKit) SetupRoutes() {
	api := rk.Router().Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/login", rk.AuthHandler.Login).
		Public().
		Description("Đăng nhập").
		Register()
	auth.Post("/logout", rk.AuthHandler.Logout).
		Public().
		Description("Đăng xuất").
		Register()
	auth.Get("/profile", rk.AuthHandler.GetProfile).
		Description("Thông tin user hiện tại").
		Register()

	// Taxonomy
	api.Get("/roles", rk.PermissionHandler.ListRoles).
		Public().
		Description("Danh sách roles").
		Register()
	api.Get("/features", rk.PermissionHandler.ListFeatures).
		Public().
		Description("Catalogue feature").
		Register()
	api.Get("/routes", rk.RouteHandler.ListRoutes).
		Allow(RoleAdmin).
		Description("Danh sách routes đã khai báo").
		Register()

	// User roles
	api.Get("/users", rk.UserRoleHandler.ListUsers).
		MinimumRole(RoleManager).
		Description("Danh sách user kèm roles").
		Register()
	api.Get("/users/:id/roles", rk.UserRoleHandler.GetUserRoles).
		MinimumRole(RoleManager).
		Description("Xem roles của user").
		Register()
	api.Put("/users/:id/roles", rk.UserRoleHandler.UpdateUserRoles).
		AdminManage().
		Description("Cập nhật roles của user").
		Register()

	// Quyền của user hiện tại, khách vẫn nhận được câu trả lời
	me := rk.App.Group("/api/me", rk.AuthMiddleware.OptionalAuth())
	me.Get("/permissions", rk.PermissionHandler.GetMyPermissions)
	me.Get("/features/:key", rk.PermissionHandler.CheckFeature)
	me.Get("/routes/check", rk.RouteHandler.CheckRoute)
}

// Middleware helper functions
func GetUserFromContext(c *fiber.Ctx) (*User, bool) {
	return middleware.GetUserFromContext(c)
}

func GetUserIDFromContext(c *fiber.Ctx) (string, bool) {
	return middleware.GetUserIDFromContext(c)
}

// NewEvaluator creates a new role evaluator
func NewEvaluator() *rbac.Evaluator {
	return rbac.NewEvaluator()
}

// DefaultFeatures trả về catalogue feature mặc định
func DefaultFeatures() []Feature {
	return models.DefaultFeatures()
}

// LoadConfig loads configuration from environment variables
// Đây là wrapper function để tránh conflict với package config của ứng dụng chính
func LoadConfig() *Config {
	return config.LoadConfig()
}
