package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"innkeep/config"
	"innkeep/infras/jwt"
	jwtMocks "innkeep/infras/jwt/mocks"
	"innkeep/infras/otel/mocks"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/internal/domains/auth/service"
	userMocks "innkeep/internal/domains/user/mocks"
	userModel "innkeep/internal/domains/user/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	"innkeep/shared/password"
	"innkeep/shared/timezone"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func attendant(t *testing.T) userModel.User {
	t.Helper()

	hashed, err := password.Hash("password")
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: hashed,
		Role:     constant.RoleAttendant,
		FullName: "Test User",
		Active:   true,
		Metadata: gModel.NewMetadata(constant.ContextSystem, timezone.Now()),
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

	req := dto.RegisterRequest{Email: "new@example.com", Password: "password123", FullName: "New Attendant"}

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful registration",
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockUserRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.Equal(t, constant.RoleAttendant, user.Role)
						assert.Equal(t, "admin-1", user.CreatedBy)
						assert.NoError(t, password.Verify("password123", user.Password))

						return nil
					})
			},
		},
		{
			name: "email already registered",
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent registration of the same email",
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockUserRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			err := svc.Register(ctx, req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	validUser := attendant(t)

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Contains(t, fields, userModel.FieldLastLogin)
						assert.NotContains(t, fields, userModel.FieldPassword)

						return 1, nil
					})
			},
		},
		{
			name: "seeded low cost hash is upgraded",
			req:  dto.LoginRequest{Email: "admin@innkeep.local", Password: "ChangeMe123!"},
			setupMock: func() {
				weak, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.MinCost)
				require.NoError(t, err)

				seeded := validUser
				seeded.Password = string(weak)

				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seeded, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), seeded.ID, seeded.Email, seeded.Role).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						rehashed, ok := fields[userModel.FieldPassword].(string)
						require.True(t, ok)
						assert.False(t, password.NeedsRehash(rehashed))
						assert.NoError(t, password.Verify("ChangeMe123!", rehashed))

						return 1, nil
					})
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nonexistent@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrongpassword"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated attendant",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				inactiveUser := validUser
				inactiveUser.Active = false

				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactiveUser, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockJWT := jwtMocks.NewMockJWT(ctrl)
	svc := service.New(userMocks.NewMockUser(ctrl), &config.Config{}, mocks.NewOtel(), mockJWT)

	tests := []struct {
		name      string
		req       dto.RefreshTokenRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful token refresh",
			req:  dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens(gomock.Any(), "valid-refresh-token").
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			req:  dto.RefreshTokenRequest{RefreshToken: "invalid-refresh-token"},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens(gomock.Any(), "invalid-refresh-token").
					Return(nil, errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RefreshToken(context.Background(), tt.req)

			if tt.wantErr {
				assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	svc := service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

	validUser := attendant(t)

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful password change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
			},
		},
		{
			name: "repository error",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("connection reset"))
			},
			wantErr: true,
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: true,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantErr: true,
		},
		{
			name: "update password error",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("update error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, "user-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
