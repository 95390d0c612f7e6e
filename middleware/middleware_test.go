package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/rolekit/config"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/metrics"
	"github.com/techmaster-vietnam/rolekit/models"
	"github.com/techmaster-vietnam/rolekit/rbac"
	"github.com/techmaster-vietnam/rolekit/service"
	"github.com/techmaster-vietnam/rolekit/utils"
	"gorm.io/gorm"
)

// mockUserRepository chỉ giữ users trong bộ nhớ
type mockUserRepository struct {
	users  map[string]*models.User
	getErr error
}

func newMockUserRepository(users ...*models.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[string]*models.User)}
	for _, u := range users {
		m.users[u.GetID()] = u
	}
	return m
}

func (m *mockUserRepository) GetByID(id string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) Create(user *models.User) error {
	m.users[user.GetID()] = user
	return nil
}

func (m *mockUserRepository) Update(user *models.User) error {
	m.users[user.GetID()] = user
	return nil
}

func (m *mockUserRepository) UpdateRoles(id string, roles []string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Roles = roles
	return nil
}

func (m *mockUserRepository) List(offset, limit int) ([]*models.User, int64, error) {
	return nil, int64(len(m.users)), nil
}

func newUser(roles ...string) *models.User {
	if roles == nil {
		roles = []string{}
	}
	return &models.User{ID: uuid.New(), Email: "user@example.com", Active: true, Roles: roles}
}

// Helper middleware để setup user context trong tests
func setupUserContext(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user != nil {
			setUser(c, user)
		}
		return c.Next()
	}
}

func newTestGate() *RoleGate {
	return NewRoleGate(service.NewPermissionService(rbac.NewEvaluator(), models.DefaultFeatures()))
}

func okHandler(c *fiber.Ctx) error {
	return c.SendString("OK")
}

func TestRoleGate(t *testing.T) {
	gate := newTestGate()

	tests := []struct {
		name    string
		user    *models.User
		handler fiber.Handler
		allowed bool
	}{
		{"require role match", newUser("manager"), gate.RequireRole("manager"), true},
		{"require role admin is not manager", newUser("admin"), gate.RequireRole("manager"), false},
		{"require role anonymous", nil, gate.RequireRole("staff"), false},
		{"any role match", newUser("staff"), gate.RequireAnyRole("staff", "manager"), true},
		{"any role empty list", newUser("admin"), gate.RequireAnyRole(), false},
		{"all roles match", newUser("admin", "manager"), gate.RequireAllRoles("admin", "manager"), true},
		{"all roles missing one", newUser("admin"), gate.RequireAllRoles("admin", "manager"), false},
		{"all roles empty list", newUser(), gate.RequireAllRoles(), true},
		{"minimum role by rank", newUser("admin"), gate.RequireMinimumRole("manager"), true},
		{"minimum role below", newUser("staff"), gate.RequireMinimumRole("manager"), false},
		{"minimum role no roles", newUser(), gate.RequireMinimumRole("staff"), false},
		{"admin manage with staff", newUser("admin", "staff"), gate.RequireAdminManage(), true},
		{"admin manage admin only", newUser("admin"), gate.RequireAdminManage(), false},
		{"feature archive for manager", newUser("manager"), gate.RequireFeature(models.FeatureProjectArchiveView), true},
		{"feature archive for staff", newUser("staff"), gate.RequireFeature(models.FeatureProjectArchiveView), false},
		{"unknown feature", newUser("admin", "manager", "staff"), gate.RequireFeature("no.such.feature"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/test", setupUserContext(tt.user), tt.handler, okHandler)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/test", nil))
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if tt.allowed && resp.StatusCode != 200 {
				t.Errorf("Expected 200, got %d", resp.StatusCode)
			}
			if !tt.allowed && resp.StatusCode == 200 {
				t.Errorf("Expected request to be rejected, got 200")
			}
		})
	}
}

func TestRoleGate_Fallback(t *testing.T) {
	gate := newTestGate().WithFallback(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusPartialContent).SendString("fallback")
	})

	app := fiber.New()
	app.Get("/reports", setupUserContext(newUser("staff")), gate.RequireFeature(models.FeatureReportView), okHandler)
	app.Get("/tasks", setupUserContext(newUser("staff")), gate.RequireFeature(models.FeatureTaskView), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/reports", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusPartialContent || string(body) != "fallback" {
		t.Errorf("Expected fallback response, got %d %q", resp.StatusCode, string(body))
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/tasks", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != "OK" {
		t.Errorf("Expected children to render, got %d %q", resp.StatusCode, string(body))
	}
}

func TestRoleGate_WithReturnsCopy(t *testing.T) {
	gate := newTestGate()
	_ = gate.WithFallback(okHandler)
	if gate.fallback != nil {
		t.Error("WithFallback should return a copy")
	}
	_ = gate.WithMetrics(metrics.NewGateMetrics(prometheus.NewRegistry()))
	if gate.metrics != nil {
		t.Error("WithMetrics should return a copy")
	}
}

func TestRoleGate_Metrics(t *testing.T) {
	m := metrics.NewGateMetrics(prometheus.NewRegistry())
	gate := newTestGate().WithMetrics(m)

	app := fiber.New()
	app.Get("/manager", setupUserContext(newUser("manager")), gate.RequireFeature(models.FeatureReportView), okHandler)
	app.Get("/staff", setupUserContext(newUser("staff")), gate.RequireFeature(models.FeatureReportView), okHandler)

	for _, path := range []string{"/manager", "/staff", "/staff"} {
		if _, err := app.Test(httptest.NewRequest("GET", path, nil)); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
	}

	if got := testutil.ToFloat64(m.Count(GateFeature, metrics.DecisionAllowed)); got != 1 {
		t.Errorf("Expected 1 allowed decision, got %v", got)
	}
	if got := testutil.ToFloat64(m.Count(GateFeature, metrics.DecisionDenied)); got != 2 {
		t.Errorf("Expected 2 denied decisions, got %v", got)
	}
}

func TestRoleGate_Require(t *testing.T) {
	gate := newTestGate()
	canCreate := gate.Require("can_create_project", gate.Permissions().CanCreateProject, nil)

	tests := []struct {
		name    string
		user    *models.User
		allowed bool
	}{
		{"manager", newUser("manager"), true},
		{"admin with staff", newUser("admin", "staff"), true},
		{"admin only", newUser("admin"), false},
		{"staff", newUser("staff"), false},
		{"anonymous", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/projects", setupUserContext(tt.user), canCreate, okHandler)

			resp, err := app.Test(httptest.NewRequest("POST", "/projects", nil))
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if tt.allowed != (resp.StatusCode == 200) {
				t.Errorf("allowed = %v, got status %d", tt.allowed, resp.StatusCode)
			}
		})
	}
}

func TestRoleGate_AnonymousSeesNilHolder(t *testing.T) {
	var seen core.RoleHolder = newUser()
	gate := newTestGate()

	app := fiber.New()
	app.Get("/", gate.Require("probe", func(user core.RoleHolder) bool {
		seen = user
		return true
	}, nil), okHandler)

	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if seen != nil {
		t.Errorf("Expected nil holder for anonymous request, got %#v", seen)
	}
}

func testAuthConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}}
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	cfg := testAuthConfig()
	active := newUser("manager")
	inactive := newUser("staff")
	inactive.Active = false
	mw := NewAuthMiddleware(cfg, newMockUserRepository(active, inactive))

	tokenFor := func(u *models.User, secret string) string {
		token, err := utils.GenerateToken(u.GetID(), u.Email, u.Roles, secret, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		return token
	}

	app := fiber.New()
	app.Get("/me", mw.RequireAuth(), func(c *fiber.Ctx) error {
		user, ok := GetUserFromContext(c)
		if !ok {
			return c.Status(500).SendString("missing user")
		}
		userID, _ := GetUserIDFromContext(c)
		if userID != user.GetID() {
			return c.Status(500).SendString("user id mismatch")
		}
		return c.SendString(user.GetID())
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode == 200 {
			t.Error("Expected rejection without token")
		}
	})

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(active, cfg.JWT.Secret))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 || string(body) != active.GetID() {
			t.Errorf("Expected 200 with user id, got %d %q", resp.StatusCode, string(body))
		}
	})

	t.Run("valid cookie token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Cookie", "token="+tokenFor(active, cfg.JWT.Secret))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("token signed with other secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(active, "other"))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode == 200 {
			t.Error("Expected rejection for forged token")
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(inactive, cfg.JWT.Secret))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode == 200 {
			t.Error("Expected rejection for inactive user")
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost := newUser("admin")
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(ghost, cfg.JWT.Secret))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode == 200 {
			t.Error("Expected rejection for unknown user")
		}
	})
}

func TestAuthMiddleware_RepositoryErrors(t *testing.T) {
	cfg := testAuthConfig()
	user := newUser("manager")
	token, err := utils.GenerateToken(user.GetID(), user.Email, user.Roles, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tests := []struct {
		name           string
		repo           *mockUserRepository
		expectedStatus int
	}{
		{"user found", newMockUserRepository(user), 200},
		{"user deleted after login", newMockUserRepository(), 401},
		{"database unavailable", &mockUserRepository{users: map[string]*models.User{}, getErr: errors.New("connection refused")}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(goerrorkit.FiberErrorHandler())
			app.Get("/me", NewAuthMiddleware(cfg, tt.repo).RequireAuth(), okHandler)

			req := httptest.NewRequest("GET", "/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
		})
	}
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	cfg := testAuthConfig()
	user := newUser("staff")
	mw := NewAuthMiddleware(cfg, newMockUserRepository(user))

	app := fiber.New()
	app.Get("/home", mw.OptionalAuth(), func(c *fiber.Ctx) error {
		if _, ok := GetUserFromContext(c); ok {
			return c.SendString("member")
		}
		return c.SendString("guest")
	})

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"no token", "", "guest"},
		{"invalid token", "Bearer garbage", "guest"},
		{"valid token", "", "member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/home", nil)
			header := tt.header
			if tt.name == "valid token" {
				token, err := utils.GenerateToken(user.GetID(), user.Email, user.Roles, cfg.JWT.Secret, time.Hour)
				if err != nil {
					t.Fatalf("GenerateToken failed: %v", err)
				}
				header = "Bearer " + token
			}
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != 200 || string(body) != tt.expected {
				t.Errorf("Expected 200 %q, got %d %q", tt.expected, resp.StatusCode, string(body))
			}
		})
	}
}
