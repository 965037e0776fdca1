package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"innkeep/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleAttendant}

// Permission guards one chi route pattern. Public routes bypass authentication; an empty role
// list admits any authenticated staff member.
type Permission struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"permissions"`
	Public bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func key(method, path string) string {
	return method + " " + path
}

// FindPermissions returns the entry for a route pattern. Unlisted routes get the zero Permission,
// which requires authentication and admits any role.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.index[key(method, path)]
}

// Load decodes a permission table and rejects duplicate routes and unknown roles.
func Load(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("decoding permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		k := key(endpoint.Method, endpoint.Path)
		if _, exists := permissions.index[k]; exists {
			return nil, fmt.Errorf("duplicate permission for %s", k)
		}

		for _, role := range endpoint.Roles {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q for %s", role, k)
			}
		}

		permissions.index[k] = endpoint
	}

	return &permissions, nil
}

func Get() *PermissionData {
	permissions, err := Load(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
