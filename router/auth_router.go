package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/rolekit/middleware"
)

// AuthRouter wrapper cho fiber.Router với fluent API để cấu hình routes và phân quyền
type AuthRouter struct {
	router   fiber.Router
	registry *RouteRegistry
	authMw   *middleware.AuthMiddleware
	gate     *middleware.RoleGate
	prefix   string // Prefix path của group (để build full path)
}

// NewAuthRouter tạo mới AuthRouter
func NewAuthRouter(
	router fiber.Router,
	registry *RouteRegistry,
	authMw *middleware.AuthMiddleware,
	gate *middleware.RoleGate,
) *AuthRouter {
	return &AuthRouter{
		router:   router,
		registry: registry,
		authMw:   authMw,
		gate:     gate,
		prefix:   "",
	}
}

// Get tạo GET route với fluent API
func (ar *AuthRouter) Get(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder("GET", path, handler)
}

// Post tạo POST route với fluent API
func (ar *AuthRouter) Post(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder("POST", path, handler)
}

// Put tạo PUT route với fluent API
func (ar *AuthRouter) Put(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder("PUT", path, handler)
}

// Delete tạo DELETE route với fluent API
func (ar *AuthRouter) Delete(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder("DELETE", path, handler)
}

// Patch tạo PATCH route với fluent API
func (ar *AuthRouter) Patch(path string, handler fiber.Handler) *RouteBuilder {
	return ar.createRouteBuilder("PATCH", path, handler)
}

// Group tạo router group với middleware tùy chọn
func (ar *AuthRouter) Group(prefix string, handlers ...fiber.Handler) *AuthRouter {
	group := ar.router.Group(prefix, handlers...)
	newRouter := NewAuthRouter(group, ar.registry, ar.authMw, ar.gate)
	newRouter.prefix = joinPath(ar.prefix, prefix)
	if newRouter.prefix == "/" {
		newRouter.prefix = ""
	}
	return newRouter
}

// joinPath nối prefix và path, chuẩn hóa dấu "/" và bỏ "/" cuối (trừ root)
func joinPath(prefix, path string) string {
	full := strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
	full = strings.TrimSuffix(full, "/")
	if full == "" {
		return "/"
	}
	return full
}

// convertPathToPattern converts path parameters to wildcard pattern
// Ví dụ: /projects/:id -> /projects/*, /users/:id/roles -> /users/*/roles
func convertPathToPattern(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, "/")
}

// createRouteBuilder tạo RouteBuilder cho route
func (ar *AuthRouter) createRouteBuilder(method, path string, handler fiber.Handler) *RouteBuilder {
	return &RouteBuilder{
		metadata: &RouteMetadata{
			Method:   method,
			Path:     path,
			FullPath: convertPathToPattern(joinPath(ar.prefix, path)),
			Handler:  handler,
			Roles:    []string{},
		},
		router:   ar.router,
		registry: ar.registry,
		authMw:   ar.authMw,
		gate:     ar.gate,
	}
}
