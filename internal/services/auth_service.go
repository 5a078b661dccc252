package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/models"
	"github.com/justsurfingit/hireground/internal/registration"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB       *gorm.DB
	TokenTTL time.Duration
	Log      *slog.Logger

	now func() time.Time
}

func NewAuthService(db *gorm.DB, ttl time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{DB: db, TokenTTL: ttl, Log: log, now: time.Now}
}

// Register creates the account and its profile and logs the user in.
func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := registration.Validate(req); err != nil {
		return nil, newError(ErrInvalidInput, err.Error())
	}
	if req.Role == "" {
		req.Role = models.RoleCandidate
	}
	email := req.Email

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Profile:      profileFromInput(req.Profile),
	}
	var token *models.AuthToken
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		token, err = s.issueToken(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("👤 User registered", "user_id", user.ID, "role", user.Role)
	return &dtos.AuthResponse{Token: token.Token, ExpiresAt: token.ExpiresAt, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*dtos.AuthResponse, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Preload("Profile").Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.issueToken(s.DB.WithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}
	s.Log.Info("🔑 User logged in", "user_id", user.ID)
	return &dtos.AuthResponse{Token: token.Token, ExpiresAt: token.ExpiresAt, User: &user}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}
	var at models.AuthToken
	err := s.DB.WithContext(ctx).Where("token = ? AND expires_at > ?", token, s.now()).First(&at).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Profile").First(&user, at.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return &user, nil
}

// Logout revokes the token. Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.AuthToken{}).Error
}

// PurgeExpired removes expired tokens and reports how many were deleted.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.AuthToken{})
	return res.RowsAffected, res.Error
}

func (s *AuthService) issueToken(tx *gorm.DB, userID uint) (*models.AuthToken, error) {
	t := &models.AuthToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.TokenTTL),
	}
	if err := tx.Create(t).Error; err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return t, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func profileFromInput(in dtos.ProfileInput) models.Profile {
	return models.Profile{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Phone:      in.Phone,
		Location:   in.Location,
		Company:    in.Company,
		Position:   in.Position,
		Skills:     in.Skills,
		Experience: in.Experience,
		Bio:        in.Bio,
	}
}
