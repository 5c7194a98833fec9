package service

import (
	"testing"
	"time"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	tests := []struct {
		name      string
		email     string
		password  string
		firstName string
		lastName  string
		phone     string
		wantErr   error
	}{
		{
			name:      "Valid registration",
			email:     "test@example.com",
			password:  "password123",
			firstName: "길동",
			lastName:  "홍",
			phone:     "010-1234-5678",
			wantErr:   nil,
		},
		{
			name:      "Duplicate email",
			email:     "test@example.com",
			password:  "password456",
			firstName: "철수",
			lastName:  "김",
			phone:     "010-8765-4321",
			wantErr:   ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(
				tt.email,
				tt.password,
				tt.firstName,
				tt.lastName,
				tt.phone,
			)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.firstName, user.FirstName)
				assert.Equal(t, model.UserTypeCustomer, user.UserType)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	email := "test@example.com"
	password := "password123"
	_, _, err := authService.Register(email, password, "길동", "홍", "010-1234-5678")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid login",
			email:    email,
			password: password,
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    email,
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Non-existing user",
			email:    "notfound@example.com",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEmpty(t, tokens.AccessToken)
			}
		})
	}
}

func TestAuthService_RefreshTokens(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, tokens, err := authService.Register("test@example.com", "password123", "길동", "홍", "010-1234-5678")
	require.NoError(t, err)

	user, refreshed, err := authService.RefreshTokens(tokens.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	// 액세스 토큰으로는 갱신할 수 없다
	_, _, err = authService.RefreshTokens(tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// 서명이 깨진 토큰 거부
	_, _, err = authService.RefreshTokens("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register("test@example.com", "password123", "길동", "홍", "010-1234-5678")
	require.NoError(t, err)

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register("test@example.com", "password123", "길동", "홍", "010-1234-5678")
	require.NoError(t, err)

	firstName := "새이름"
	phone := "010-9999-0000"
	updated, err := authService.UpdateProfile(user.ID, ProfileMutation{
		FirstName: &firstName,
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, firstName, updated.FirstName)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "홍", updated.LastName)

	_, err = authService.UpdateProfile(9999, ProfileMutation{FirstName: &firstName})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_PasswordSecurity(t *testing.T) {
	authService := setupAuthServiceTest(t)

	password := "mySecretPassword123"
	user, _, err := authService.Register("test@example.com", password, "길동", "홍", "010-1234-5678")
	require.NoError(t, err)

	// Password should be hashed
	assert.NotEqual(t, password, user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$2a$")
}

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	authService := setupAuthServiceTest(t)

	// Redis가 없으면 로그아웃은 조용히 성공한다
	err := authService.Logout("some-token", time.Minute)
	assert.NoError(t, err)
}
