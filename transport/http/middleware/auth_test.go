package middleware_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/config"
	"innkeep/infras/jwt"
	jwtMocks "innkeep/infras/jwt/mocks"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/permissions"
	"innkeep/shared/constant"
	"innkeep/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testAPIKey     = "internal-key"
	testPermission = `{
		"endpoints": [
			{ "path": "/v1/auth/login", "method": "POST", "skip": true },
			{ "path": "/v1/rooms/{id}", "method": "GET", "permissions": ["admin", "attendant"] },
			{ "path": "/v1/rooms/{id}/maintenance", "method": "PATCH", "permissions": ["admin"] }
		]
	}`
)

// newAuthServer echoes the role the middleware chain put on the context.
func newAuthServer(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	perms, err := permissions.Load([]byte(testPermission))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = testAPIKey

	authRole := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), perms, cfg)

	echoRole := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		_, _ = w.Write([]byte(role))
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	router.Post("/v1/auth/login", echoRole)
	router.Get("/v1/rooms/{id}", echoRole)
	router.Patch("/v1/rooms/{id}/maintenance", echoRole)

	return router
}

func claimsFor(role string) *jwt.Claims {
	return &jwt.Claims{UserID: "user-1", Email: role + "@innkeep.local", Role: role, TokenID: "token-1"}
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		headers   map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		wantCode  int
		wantBody  string
		wantError string
	}{
		{
			name:     "public route needs no token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:      "missing header",
			method:    http.MethodGet,
			path:      "/v1/rooms/r-1",
			wantCode:  http.StatusUnauthorized,
			wantError: "Missing authorization header",
		},
		{
			name:      "malformed header",
			method:    http.MethodGet,
			path:      "/v1/rooms/r-1",
			headers:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode:  http.StatusUnauthorized,
			wantError: "Invalid authorization header format",
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/v1/rooms/r-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer stale"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).
					Return(nil, fmt.Errorf("validate: %w", jwt.ErrExpiredToken))
			},
			wantCode:  http.StatusUnauthorized,
			wantError: "Token has expired",
		},
		{
			name:    "claims without subject",
			method:  http.MethodGet,
			path:    "/v1/rooms/r-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer hollow"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "hollow", jwt.AccessToken).Return(&jwt.Claims{Role: constant.RoleAdmin}, nil)
			},
			wantCode:  http.StatusUnauthorized,
			wantError: "Invalid token claims",
		},
		{
			name:    "attendant reads a room",
			method:  http.MethodGet,
			path:    "/v1/rooms/r-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(claimsFor(constant.RoleAttendant), nil)
			},
			wantCode: http.StatusOK,
			wantBody: constant.RoleAttendant,
		},
		{
			name:    "attendant cannot start maintenance",
			method:  http.MethodPatch,
			path:    "/v1/rooms/r-1/maintenance",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(claimsFor(constant.RoleAttendant), nil)
			},
			wantCode:  http.StatusForbidden,
			wantError: "You don't have the required permissions",
		},
		{
			name:    "admin starts maintenance",
			method:  http.MethodPatch,
			path:    "/v1/rooms/r-1/maintenance",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(claimsFor(constant.RoleAdmin), nil)
			},
			wantCode: http.StatusOK,
			wantBody: constant.RoleAdmin,
		},
		{
			name:     "internal caller skips token checks",
			method:   http.MethodPatch,
			path:     "/v1/rooms/r-1/maintenance",
			headers:  map[string]string{constant.RequestHeaderAPIKey: testAPIKey},
			wantCode: http.StatusOK,
		},
		{
			name:      "wrong api key",
			method:    http.MethodGet,
			path:      "/v1/rooms/r-1",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode:  http.StatusForbidden,
			wantError: "You don't have the required permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(jwtService)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			newAuthServer(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])

				return
			}

			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRBAC_WithoutPermissionTable(t *testing.T) {
	authRole := middleware.NewAuthRoleMiddleware(nil, otelMocks.NewOtel(), nil, &config.Config{})

	handler := authRole.RBAC(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
