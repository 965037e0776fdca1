package dto_test

import (
	"testing"

	"innkeep/infras/jwt"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/shared/constant"

	"github.com/stretchr/testify/assert"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected string
	}{
		{name: "defaults to attendant", expected: constant.RoleAttendant},
		{name: "keeps admin", role: constant.RoleAdmin, expected: constant.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.RegisterRequest{Email: "ada@inn.test", Password: "secret-pass", FullName: "Ada", Role: tt.role}

			user := req.ToUserModel("admin-1", "hashed")

			assert.NotEmpty(t, user.ID)
			assert.Equal(t, tt.expected, user.Role)
			assert.Equal(t, "hashed", user.Password)
			assert.True(t, user.Active)
			assert.Equal(t, "admin-1", user.CreatedBy)
		})
	}
}
