package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour

	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type TokenPair struct {
	TokenType    string       `json:"token_type"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
}

type CreateAdminInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=100"`
}

// AuthService issues and verifies admin panel tokens.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	now    repository.Clock
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, secret string, now repository.Clock, log *zap.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, secret: []byte(secret), now: now, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, refresh, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveRefreshToken(ctx, &models.RefreshToken{
		UserID:         user.ID,
		Token:          refresh,
		ExpirationDate: s.now().Add(RefreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.log.Info("admin logged in", zap.Uint("user_id", user.ID))
	return pair, nil
}

// Refresh rotates a refresh token: the old one stops working.
func (s *AuthService) Refresh(ctx context.Context, token string) (*TokenPair, error) {
	stored, err := s.users.FindRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if s.now().After(stored.ExpirationDate) {
		if _, err := s.users.DeleteRefreshToken(ctx, token); err != nil {
			s.log.Warn("could not delete expired refresh token", zap.Error(err))
		}
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	pair, refresh, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	stored.Token = refresh
	stored.ExpirationDate = s.now().Add(RefreshTokenTTL)
	if err := s.users.SaveRefreshToken(ctx, stored); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return pair, nil
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.users.DeleteRefreshToken(ctx, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.User, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		FullName: strings.TrimSpace(in.FullName),
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("email", "is already registered")
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return user, nil
}

// Authenticate turns a signed access token into a session.
func (s *AuthService) Authenticate(token string) (*utils.Session, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	if typ, _ := claims["type"].(string); typ != tokenAccess {
		return nil, ErrUnauthorized
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &utils.Session{UserID: uint(userID), Email: email, Role: role}, nil
}

func (s *AuthService) issue(user *models.User) (*TokenPair, string, error) {
	now := s.now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"type":    tokenAccess,
		"iat":     now.Unix(),
		"exp":     now.Add(AccessTokenTTL).Unix(),
	})
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"type":    tokenRefresh,
		"jti":     uuid.New().String(),
		"exp":     now.Add(RefreshTokenTTL).Unix(),
	})

	accessToken, err := access.SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := refresh.SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(AccessTokenTTL.Seconds()),
		User:         user,
	}, refreshToken, nil
}
