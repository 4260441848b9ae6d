// Package authz decides which role may call which route, using casbin.
package authz

import (
	"fmt"
	"net/http"

	"gamesite/middleware"
	"gamesite/models"
	"gamesite/utils"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
)

// Roles, from least to most privileged. Each role inherits the one before it.
const (
	RoleAnonymous = "role:anonymous"
	RoleMember    = "role:member"
	RoleAdmin     = "role:admin"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const (
	read       = "^(GET|HEAD)$"
	write      = "^(POST|PUT|PATCH|DELETE)$"
	allMethods = "^(GET|HEAD|POST|PUT|PATCH|DELETE)$"
)

var policies = [][]string{
	{RoleAnonymous, "/api/games/", read},
	{RoleAnonymous, "/api/games/:id/", read},
	{RoleAnonymous, "/api/genres/", read},
	{RoleAnonymous, "/api/genres/:id/", read},
	{RoleAnonymous, "/api/platforms/", read},
	{RoleAnonymous, "/api/platforms/:id/", read},
	{RoleAnonymous, "/api/stores/", read},
	{RoleAnonymous, "/api/stores/:id/", read},

	{RoleMember, "/api/games/", write},
	{RoleMember, "/api/games/:id/", write},
	{RoleMember, "/whitelist/:id/", "^POST$"},
	{RoleMember, "/accounts/me/", read},

	{RoleAdmin, "/api/admin/*", allMethods},
}

var inheritance = [][]string{
	{RoleMember, RoleAnonymous},
	{RoleAdmin, RoleMember},
}

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an enforcer with the built-in model and policy.
func New() (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(inheritance); err != nil {
		return nil, fmt.Errorf("failed to load role hierarchy: %w", err)
	}
	return &Authorizer{enforcer: e}, nil
}

// RoleOf maps a user to its role. nil is anonymous; gamers and developers
// are members; staff are admins.
func RoleOf(u *models.User) string {
	switch {
	case u == nil:
		return RoleAnonymous
	case u.IsStaff:
		return RoleAdmin
	default:
		return RoleMember
	}
}

// Can reports whether role may call method on path.
func (a *Authorizer) Can(role, path, method string) bool {
	ok, err := a.enforcer.Enforce(role, path, method)
	if err != nil {
		utils.LogError("Casbin enforce failed", map[string]interface{}{"error": err.Error(), "path": path})
		return false
	}
	return ok
}

// Middleware rejects requests the current user's role may not make:
// 401 when nobody is logged in, 403 otherwise.
func (a *Authorizer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		role := RoleOf(user)
		if a.Can(role, c.Request.URL.Path, c.Request.Method) {
			c.Next()
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		utils.LogWarn("Access denied", map[string]interface{}{
			"user_id": user.ID,
			"role":    role,
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
		})
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"detail": "You do not have permission to perform this action.",
		})
	}
}
