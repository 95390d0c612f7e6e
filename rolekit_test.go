package rolekit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/rolekit/config"
	"github.com/techmaster-vietnam/rolekit/models"
	"gorm.io/gorm"
)

type mockUserRepository struct{}

func (m *mockUserRepository) GetByID(id string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) Create(user *models.User) error { return nil }

func (m *mockUserRepository) Update(user *models.User) error { return nil }

func (m *mockUserRepository) UpdateRoles(id string, roles []string) error { return nil }

func (m *mockUserRepository) List(offset, limit int) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func newTestKit(t *testing.T, builder func(b *RoleKitBuilder)) *RoleKit {
	t.Helper()

	b := New(fiber.New(), nil).
		WithConfig(&config.Config{JWT: config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}}).
		WithUserRepository(&mockUserRepository{})
	if builder != nil {
		builder(b)
	}
	rk, err := b.Initialize()
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return rk
}

func TestInitialize_WithFeatures(t *testing.T) {
	rk := newTestKit(t, func(b *RoleKitBuilder) {
		b.WithFeatures(
			Feature{Key: "board.export", Roles: []string{RoleAdmin}},
			Feature{Key: models.FeatureTaskView, Roles: []string{RoleManager}},
		)
	})

	if _, ok := rk.PermissionService.Feature("board.export"); !ok {
		t.Error("Expected custom feature to be registered")
	}
	f, _ := rk.PermissionService.Feature(models.FeatureTaskView)
	if len(f.Roles) != 1 || f.Roles[0] != RoleManager {
		t.Errorf("Expected task.view to be overridden, got %v", f.Roles)
	}
	if got, want := len(rk.PermissionService.Features()), len(DefaultFeatures())+1; got != want {
		t.Errorf("Expected %d features, got %d", want, got)
	}
}

func TestSetupRoutes(t *testing.T) {
	rk := newTestKit(t, nil)
	rk.SetupRoutes()

	if r := rk.RouteRegistry.FindRoute("PUT", "/api/users/abc/roles"); r == nil || r.AccessType != AccessAdminManage {
		t.Errorf("Expected PUT /api/users/*/roles to require admin manage, got %+v", r)
	}
	if r := rk.RouteRegistry.FindRoute("GET", "/api/users"); r == nil || r.AccessType != AccessMinimumRole || r.MinimumRole != RoleManager {
		t.Errorf("Expected GET /api/users to require manager, got %+v", r)
	}
	if r := rk.RouteRegistry.FindRoute("POST", "/api/auth/login"); r == nil || r.AccessType != AccessPublic {
		t.Errorf("Expected login to be public, got %+v", r)
	}

	resp, err := rk.App.Test(httptest.NewRequest("GET", "/api/roles", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected 200 for public route, got %d", resp.StatusCode)
	}

	resp, err = rk.App.Test(httptest.NewRequest("GET", "/api/routes", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode == 200 {
		t.Error("Expected route listing without token to be rejected")
	}
}

func TestSetupRoutes_Fallback(t *testing.T) {
	rk := newTestKit(t, func(b *RoleKitBuilder) {
		b.WithFallback(func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTeapot).SendString("fallback")
		})
	})

	rk.Router().Get("/dashboard", func(c *fiber.Ctx) error { return c.SendString("OK") }).
		MinimumRole(RoleStaff).
		Register()

	// Khách đi tới RoleGate và nhận fallback thay cho 401
	resp, err := rk.App.Test(httptest.NewRequest("GET", "/dashboard", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Errorf("Expected fallback for guest, got %d", resp.StatusCode)
	}
}
