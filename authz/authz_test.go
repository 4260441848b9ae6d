package authz

import (
	"net/http"
	"testing"

	"gamesite/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOf(t *testing.T) {
	assert.Equal(t, RoleAnonymous, RoleOf(nil))
	assert.Equal(t, RoleMember, RoleOf(&models.User{UserType: models.UserTypeGamer}))
	assert.Equal(t, RoleMember, RoleOf(&models.User{UserType: models.UserTypeDev}))
	assert.Equal(t, RoleAdmin, RoleOf(&models.User{IsStaff: true}))
}

func TestPolicy(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	cases := []struct {
		role, path, method string
		want               bool
	}{
		{RoleAnonymous, "/api/games/", http.MethodGet, true},
		{RoleAnonymous, "/api/games/7/", http.MethodGet, true},
		{RoleAnonymous, "/api/genres/3/", http.MethodGet, true},
		{RoleAnonymous, "/api/games/", http.MethodPost, false},
		{RoleAnonymous, "/whitelist/1/", http.MethodPost, false},
		{RoleAnonymous, "/accounts/me/", http.MethodGet, false},
		{RoleMember, "/api/games/", http.MethodGet, true},
		{RoleMember, "/api/games/", http.MethodPost, true},
		{RoleMember, "/api/games/7/", http.MethodPatch, true},
		{RoleMember, "/api/games/7/", http.MethodDelete, true},
		{RoleMember, "/whitelist/1/", http.MethodPost, true},
		{RoleMember, "/whitelist/1/", http.MethodGet, false},
		{RoleMember, "/api/admin/stats/", http.MethodGet, false},
		{RoleAdmin, "/api/admin/stats/", http.MethodGet, true},
		{RoleAdmin, "/api/admin/lookups/genres/4/", http.MethodDelete, true},
		{RoleAdmin, "/api/games/7/", http.MethodPut, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, a.Can(tc.role, tc.path, tc.method), "%s %s %s", tc.role, tc.method, tc.path)
	}
}
