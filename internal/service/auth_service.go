package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/repository"
	"wsuconnect/pkg/apperror"
	"wsuconnect/pkg/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	SignUp(ctx context.Context, input dto.SignUpInput) (*entity.Profile, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Logout(ctx context.Context, tokenString string) error
	CurrentProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error
}

type authService struct {
	repo        repository.ProfileRepository
	redisClient *redis.Client
	mail        *mailer.Mailer
	secret      string
	tokenTTL    time.Duration
	resetTTL    time.Duration
	baseURL     string
}

func NewAuthService(repo repository.ProfileRepository, redisClient *redis.Client, mail *mailer.Mailer, secret string, tokenTTL, resetTTL time.Duration, baseURL string) AuthService {
	return &authService{
		repo:        repo,
		redisClient: redisClient,
		mail:        mail,
		secret:      secret,
		tokenTTL:    tokenTTL,
		resetTTL:    resetTTL,
		baseURL:     baseURL,
	}
}

// SignUp creates the profile row directly; after success a profile with the
// given email and role is immediately readable.
func (s *authService) SignUp(ctx context.Context, input dto.SignUpInput) (*entity.Profile, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &entity.Profile{
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         entity.Role(input.Role),
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	profile, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(profile)
	if err != nil {
		return nil, err
	}

	profile.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		Profile:     profile,
	}, nil
}

// Logout denylists the presented token until its natural expiry. Without
// Redis the call succeeds and the token simply ages out.
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	if s.redisClient == nil {
		return nil
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return apperror.ErrUnauthorized
	}

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	return s.redisClient.Set(ctx, DenylistKey(tokenString), "revoked", ttl).Err()
}

func (s *authService) CurrentProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

// ForgotPassword issues a one-time reset token and mails the reset link. The
// answer is identical whether or not the email exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if s.redisClient == nil {
		log.Printf("password reset requested for %s but redis is unavailable", email)
		return nil
	}

	token := uuid.New().String()
	if err := s.redisClient.Set(ctx, resetKey(token), profile.ID.String(), s.resetTTL).Err(); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	if err := s.mail.SendPasswordReset(ctx, profile.Email, resetURL); err != nil {
		log.Printf("failed to send password reset mail to %s: %v", profile.Email, err)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	if s.redisClient == nil {
		return errors.New("password reset is not available")
	}

	idStr, err := s.redisClient.Get(ctx, resetKey(input.Token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("invalid or expired reset token")
		}
		return err
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	profile.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, profile); err != nil {
		return err
	}

	// Token is single-use.
	s.redisClient.Del(ctx, resetKey(input.Token))
	return nil
}

func (s *authService) generateToken(profile *entity.Profile) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   profile.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

func resetKey(token string) string {
	return "password_reset:" + token
}

// DenylistKey is the Redis key under which a logged-out token is parked. The
// auth middleware checks it on every request.
func DenylistKey(token string) string {
	return "token_denylist:" + token
}
