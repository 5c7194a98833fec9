package service

import (
	"context"
	"errors"
	"time"

	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/repository"
	"github.com/hyeonpark/dongnemarket-backend/pkg/logger"
	"github.com/hyeonpark/dongnemarket-backend/pkg/redis"
	"github.com/hyeonpark/dongnemarket-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists  = errors.New("이미 사용 중인 이메일입니다")
	ErrInvalidCredentials  = errors.New("이메일 또는 비밀번호가 올바르지 않습니다")
	ErrUserNotFound        = errors.New("사용자를 찾을 수 없습니다")
	ErrInvalidRefreshToken = errors.New("유효하지 않은 갱신 토큰입니다")
)

type ProfileMutation struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	ProfileImage *string
}

type AuthService interface {
	Register(email, password, firstName, lastName, phone string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	RefreshTokens(refreshToken string) (*model.User, *util.TokenPair, error)
	Logout(token string, expiry time.Duration) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileMutation) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(email, password, firstName, lastName, phone string) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	// Create user
	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		UserType:     model.UserTypeCustomer,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	// Generate tokens
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.UserType),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":   user.ID,
		"email":     email,
		"user_type": user.UserType,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.UserType),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id":   user.ID,
		"email":     email,
		"user_type": user.UserType,
	})

	return user, tokens, nil
}

// RefreshTokens 갱신 토큰을 검증하고 새 토큰 쌍을 발급한다.
// 액세스 토큰으로는 갱신할 수 없으며, 발급 시점의 역할이 아니라
// 현재 사용자 역할로 새 토큰을 만든다.
func (s *authService) RefreshTokens(refreshToken string) (*model.User, *util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		logger.Warn("Token refresh failed: invalid token", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil, ErrInvalidRefreshToken
	}

	if claims.Subject != "refresh" {
		logger.Warn("Token refresh failed: not a refresh token", map[string]interface{}{
			"user_id": claims.UserID,
			"subject": claims.Subject,
		})
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		logger.Error("Failed to find user for token refresh", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.UserType),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// Logout 액세스 토큰을 만료 시점까지 블랙리스트에 등록한다
func (s *authService) Logout(token string, expiry time.Duration) error {
	if !redis.Enabled() {
		logger.Warn("Logout without Redis, token not blacklisted", nil)
		return nil
	}
	return redis.BlacklistToken(context.Background(), token, expiry)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithShop(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileMutation) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}
