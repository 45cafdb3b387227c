package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/middleware"
	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost       = 10
	resetTokenExpiry = 10 * time.Minute
)

// AuthService handles registration, login, OAuth linkage and the
// password-reset lifecycle.
type AuthService struct {
	users       port.UserStore
	providers   port.OAuthProviderRegistry
	mailer      port.Mailer
	jwtCfg      middleware.JWTConfig
	frontendURL string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users port.UserStore, providers port.OAuthProviderRegistry, mailer port.Mailer, jwtCfg middleware.JWTConfig, frontendURL string) *AuthService {
	return &AuthService{
		users:       users,
		providers:   providers,
		mailer:      mailer,
		jwtCfg:      jwtCfg,
		frontendURL: frontendURL,
	}
}

// Register creates a local-credential account and returns a bearer token
// plus the created user.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	if len(password) < 6 {
		return "", nil, port.Validation("Password must be at least 6 characters")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return "", nil, port.ErrUserExists
	}
	if !errors.Is(err, port.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           ksuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := middleware.GenerateToken(user.ID, s.jwtCfg)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return token, user, nil
}

// Login authenticates local credentials and returns a fresh bearer token.
// An account without a local password always fails the comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, port.ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(user.ID, s.jwtCfg)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// AuthURL returns the OAuth2 authorization URL for the given provider.
func (s *AuthService) AuthURL(providerName, state string) (string, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", fmt.Errorf("unknown provider: %s", providerName)
	}
	return provider.AuthURL(state), nil
}

// HandleOAuthCallback exchanges the authorization code, resolves the user
// by provider linkage (creating a passwordless account on first login) and
// issues a bearer token identical in shape to local login.
func (s *AuthService) HandleOAuthCallback(ctx context.Context, providerName, code string) (string, *domain.User, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", nil, fmt.Errorf("unknown provider: %s", providerName)
	}

	tokens, err := provider.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("exchange code: %w", err)
	}

	profile, err := provider.GetProfile(ctx, tokens.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.users.GetUserByProviderID(ctx, profile.Provider, profile.ProviderID)
	if errors.Is(err, port.ErrUserNotFound) {
		user = &domain.User{
			ID:        ksuid.New().String(),
			Email:     profile.Email,
			Name:      profile.Name,
			AvatarURL: profile.AvatarURL,
			IsActive:  true,
		}
		switch profile.Provider {
		case "facebook":
			user.FacebookID = profile.ProviderID
		default:
			user.GoogleID = profile.ProviderID
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return "", nil, err
		}
		slog.Info("oauth user created", "user_id", user.ID, "provider", profile.Provider)
	} else if err != nil {
		return "", nil, err
	}

	token, err := middleware.GenerateToken(user.ID, s.jwtCfg)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// RequestPasswordReset stores a hashed single-use reset token on the user
// and emails the raw token embedded in a reset URL. The token fields are
// persisted before the mail goes out; a delivery failure surfaces as
// ErrEmailSend.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	expiry := time.Now().Add(resetTokenExpiry)
	user.ResetTokenHash = hashResetToken(rawToken)
	user.ResetTokenExpiry = &expiry
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return err
	}

	resetURL := s.frontendURL + "/reset-password/" + rawToken
	body := "You requested a password reset.\n\nClick:\n" + resetURL
	if err := s.mailer.Send(user.Email, "Password Reset", body); err != nil {
		return fmt.Errorf("%w: %s", port.ErrEmailSend, err)
	}
	return nil
}

// ResetPassword consumes a raw reset token. The token is single-use and
// time-boxed: once consumed or expired the lookup never matches again.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	user, err := s.users.GetUserByResetToken(ctx, hashResetToken(rawToken), time.Now())
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return port.ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = nil
	return s.users.UpdateUser(ctx, user)
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
