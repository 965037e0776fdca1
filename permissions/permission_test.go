package permissions

import (
	"net/http"
	"testing"

	"innkeep/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	perms, err := Load(permissionsData)
	require.NoError(t, err)

	tests := []struct {
		name      string
		path      string
		method    string
		public    bool
		admin     bool
		attendant bool
	}{
		{name: "login is public", path: "/v1/auth/login", method: http.MethodPost, public: true, admin: true, attendant: true},
		{name: "register is admin only", path: "/v1/auth/register", method: http.MethodPost, admin: true},
		{name: "room creation is admin only", path: "/v1/rooms/", method: http.MethodPost, admin: true},
		{name: "maintenance toggle is admin only", path: "/v1/rooms/{id}/maintenance", method: http.MethodPatch, admin: true},
		{name: "room listing is shared", path: "/v1/rooms/", method: http.MethodGet, admin: true, attendant: true},
		{name: "reservation create is shared", path: "/v1/reservations/", method: http.MethodPost, admin: true, attendant: true},
		{name: "status override is admin only", path: "/v1/reservations/{id}/status", method: http.MethodPatch, admin: true},
		{name: "checkout is shared", path: "/v1/checkins/{id}/checkout", method: http.MethodPatch, admin: true, attendant: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := perms.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.public, permission.Public)
			assert.Equal(t, tt.admin, permission.Allows(constant.RoleAdmin))
			assert.Equal(t, tt.attendant, permission.Allows(constant.RoleAttendant))
		})
	}
}

func TestFindPermissions_Unlisted(t *testing.T) {
	perms, err := Load([]byte(`{"endpoints": []}`))
	require.NoError(t, err)

	permission := perms.FindPermissions("/v1/unknown", http.MethodGet)

	assert.False(t, permission.Public)
	assert.True(t, permission.Allows(constant.RoleAttendant))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "malformed json", data: `{"endpoints": [`, wantErr: "decoding permissions"},
		{
			name:    "duplicate route",
			data:    `{"endpoints": [{"path": "/v1/rooms/", "method": "GET"}, {"path": "/v1/rooms/", "method": "GET"}]}`,
			wantErr: "duplicate permission",
		},
		{
			name:    "unknown role",
			data:    `{"endpoints": [{"path": "/v1/rooms/", "method": "GET", "permissions": ["manager"]}]}`,
			wantErr: "unknown role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
