package router

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/rolekit/core"
	"github.com/techmaster-vietnam/rolekit/service"
)

// AccessType mô tả cách một route được bảo vệ
type AccessType string

const (
	AccessPublic        AccessType = "PUBLIC"        // Cho phép mọi người, kể cả anonymous
	AccessAuthenticated AccessType = "AUTHENTICATED" // Bất kỳ user đã đăng nhập
	AccessAnyRole       AccessType = "ANY_ROLE"      // Có ít nhất một role trong danh sách
	AccessAllRoles      AccessType = "ALL_ROLES"     // Có tất cả role trong danh sách
	AccessMinimumRole   AccessType = "MINIMUM_ROLE"  // Role cao nhất đạt tối thiểu
	AccessFeature       AccessType = "FEATURE"       // Theo catalogue feature
	AccessAdminManage   AccessType = "ADMIN_MANAGE"  // Admin kèm manager hoặc staff
	AccessCustom        AccessType = "CUSTOM"        // Hàm kiểm tra riêng của ứng dụng
)

// RouteMetadata lưu thông tin route được khai báo trong code
type RouteMetadata struct {
	Method      string        `json:"method"`
	Path        string        `json:"-"`         // Relative path (để register vào router)
	FullPath    string        `json:"path"`      // Full path pattern bao gồm prefix
	Handler     fiber.Handler `json:"-"`
	AccessType  AccessType    `json:"access_type"`
	Roles       []string      `json:"roles,omitempty"`
	MinimumRole string        `json:"minimum_role,omitempty"`
	Feature     string        `json:"feature,omitempty"`
	Check       string        `json:"check,omitempty"` // Tên hàm kiểm tra khi AccessType là CUSTOM
	Description string        `json:"description,omitempty"`

	checkFn func(core.RoleHolder) bool
}

// Permits quyết định user có được gọi route không
// Mọi route không public đều yêu cầu user khác nil
func (rm *RouteMetadata) Permits(permissions *service.PermissionService, user core.RoleHolder) bool {
	if rm.AccessType == AccessPublic {
		return true
	}
	if user == nil {
		return false
	}

	e := permissions.Evaluator()
	switch rm.AccessType {
	case AccessAuthenticated:
		return true
	case AccessAnyRole:
		// Roles rỗng = mọi user đã đăng nhập
		if len(rm.Roles) == 0 {
			return true
		}
		return e.HasAnyRole(user, rm.Roles)
	case AccessAllRoles:
		return e.HasAllRoles(user, rm.Roles)
	case AccessMinimumRole:
		return e.HasMinimumRole(user, rm.MinimumRole)
	case AccessFeature:
		return permissions.CanAccess(user, rm.Feature)
	case AccessAdminManage:
		return e.CanAdminManage(user)
	case AccessCustom:
		return rm.checkFn != nil && rm.checkFn(user)
	default:
		return false
	}
}

// RouteRegistry quản lý tất cả routes được đăng ký từ code
type RouteRegistry struct {
	routes      []*RouteMetadata
	exactMap    map[string]*RouteMetadata // O(1) lookup: "METHOD|PATH" -> RouteMetadata
	patternList []*RouteMetadata          // Routes có wildcard patterns
	mutex       sync.RWMutex
}

// NewRouteRegistry tạo mới RouteRegistry
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{
		routes:      make([]*RouteMetadata, 0),
		exactMap:    make(map[string]*RouteMetadata),
		patternList: make([]*RouteMetadata, 0),
	}
}

// Register đăng ký một route vào registry
func (rr *RouteRegistry) Register(route *RouteMetadata) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	rr.routes = append(rr.routes, route)

	if strings.Contains(route.FullPath, "*") {
		rr.patternList = append(rr.patternList, route)
	} else {
		key := fmt.Sprintf("%s|%s", route.Method, route.FullPath)
		rr.exactMap[key] = route
	}
}

// GetAllRoutes trả về tất cả routes đã đăng ký
func (rr *RouteRegistry) GetAllRoutes() []*RouteMetadata {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	routes := make([]*RouteMetadata, len(rr.routes))
	copy(routes, rr.routes)
	return routes
}

// FindRoute tìm route theo method và path
func (rr *RouteRegistry) FindRoute(method, path string) *RouteMetadata {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	// Thử exact match trước (O(1))
	key := fmt.Sprintf("%s|%s", method, path)
	if route, found := rr.exactMap[key]; found {
		return route
	}

	for _, route := range rr.patternList {
		if route.Method == method && matchPath(route.FullPath, path) {
			return route
		}
	}

	return nil
}

// matchPath kiểm tra path có match với pattern không (hỗ trợ wildcard *)
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}

	return true
}
