package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/middleware"
	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/stretchr/testify/require"
)

const testFrontendURL = "http://localhost:3000"

func newAuthService(store *stubStore, mailer *stubMailer, providers port.OAuthProviderRegistry) *AuthService {
	return NewAuthService(store, providers, mailer, middleware.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: time.Hour,
	}, testFrontendURL)
}

func TestRegister(t *testing.T) {
	store := newStubStore()
	svc := newAuthService(store, &stubMailer{}, nil)
	ctx := context.Background()

	token, user, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "a@x.com", user.Email)
	require.True(t, user.IsActive)
	require.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newStubStore()
	svc := newAuthService(store, &stubMailer{}, nil)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "B", "a@x.com", "secret2")
	require.ErrorIs(t, err, port.ErrUserExists)
}

func TestRegisterShortPassword(t *testing.T) {
	store := newStubStore()
	svc := newAuthService(store, &stubMailer{}, nil)

	_, _, err := svc.Register(context.Background(), "A", "a@x.com", "12345")
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLogin(t *testing.T) {
	store := newStubStore()
	svc := newAuthService(store, &stubMailer{}, nil)
	ctx := context.Background()

	_, created, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, created.ID, user.ID)

	_, _, err = svc.Login(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, err, port.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@x.com", "secret1")
	require.ErrorIs(t, err, port.ErrUserNotFound)
}

func TestLoginOAuthOnlyAccountFails(t *testing.T) {
	store := newStubStore()
	svc := newAuthService(store, &stubMailer{}, nil)
	ctx := context.Background()

	store.setUser(&domain.User{ID: "u1", Email: "oauth@x.com", GoogleID: "g1", IsActive: true})

	_, _, err := svc.Login(ctx, "oauth@x.com", "anything")
	require.ErrorIs(t, err, port.ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	store := newStubStore()
	mailer := &stubMailer{}
	svc := newAuthService(store, mailer, nil)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))
	require.Len(t, mailer.bodies, 1)
	require.Equal(t, []string{"a@x.com"}, mailer.to)

	rawToken := extractResetToken(t, mailer.bodies[0])

	require.NoError(t, svc.ResetPassword(ctx, rawToken, "newpass1"))

	// new credentials work, old ones do not
	_, _, err = svc.Login(ctx, "a@x.com", "newpass1")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@x.com", "secret1")
	require.ErrorIs(t, err, port.ErrInvalidCredentials)

	// single use: the same raw token never succeeds twice
	err = svc.ResetPassword(ctx, rawToken, "another1")
	require.ErrorIs(t, err, port.ErrInvalidOrExpiredToken)

	// reset fields were cleared
	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.ResetTokenHash)
	require.Nil(t, stored.ResetTokenExpiry)
}

func TestResetTokenExpiry(t *testing.T) {
	store := newStubStore()
	mailer := &stubMailer{}
	svc := newAuthService(store, mailer, nil)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "a@x.com"))

	rawToken := extractResetToken(t, mailer.bodies[0])

	// force the stored expiry into the past
	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	stored.ResetTokenExpiry = &past
	store.setUser(stored)

	err = svc.ResetPassword(ctx, rawToken, "newpass1")
	require.ErrorIs(t, err, port.ErrInvalidOrExpiredToken)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc := newAuthService(newStubStore(), &stubMailer{}, nil)

	err := svc.RequestPasswordReset(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, port.ErrUserNotFound)
}

func TestRequestPasswordResetMailFailure(t *testing.T) {
	store := newStubStore()
	mailer := &stubMailer{sendErr: errors.New("smtp down")}
	svc := newAuthService(store, mailer, nil)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	require.NoError(t, err)

	err = svc.RequestPasswordReset(ctx, "a@x.com")
	require.ErrorIs(t, err, port.ErrEmailSend)

	// token fields were persisted before the send was attempted
	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetTokenHash)
	require.NotNil(t, stored.ResetTokenExpiry)
}

type fakeProvider struct {
	name    string
	profile domain.OAuthProfile
}

func (p *fakeProvider) ProviderName() string { return p.name }

func (p *fakeProvider) AuthURL(state string) string {
	return "https://example.com/auth?state=" + state
}

func (p *fakeProvider) ExchangeCode(context.Context, string) (*domain.TokenPair, error) {
	return &domain.TokenPair{AccessToken: "access"}, nil
}

func (p *fakeProvider) GetProfile(context.Context, string) (*domain.OAuthProfile, error) {
	profile := p.profile
	return &profile, nil
}

func TestOAuthCallbackCreatesUserOnce(t *testing.T) {
	store := newStubStore()
	providers := port.OAuthProviderRegistry{
		"google": &fakeProvider{name: "google", profile: domain.OAuthProfile{
			Provider:   "google",
			ProviderID: "g-123",
			Email:      "g@x.com",
			Name:       "G User",
			AvatarURL:  "https://example.com/p.png",
		}},
	}
	svc := newAuthService(store, &stubMailer{}, providers)
	ctx := context.Background()

	token, user, err := svc.HandleOAuthCallback(ctx, "google", "code-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "g-123", user.GoogleID)
	require.Empty(t, user.PasswordHash)
	require.True(t, user.IsActive)

	// second login resolves the same account
	_, again, err := svc.HandleOAuthCallback(ctx, "google", "code-2")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

func TestOAuthCallbackUnknownProvider(t *testing.T) {
	svc := newAuthService(newStubStore(), &stubMailer{}, port.OAuthProviderRegistry{})

	_, _, err := svc.HandleOAuthCallback(context.Background(), "github", "code")
	require.Error(t, err)
}

func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	marker := testFrontendURL + "/reset-password/"
	idx := strings.Index(body, marker)
	require.GreaterOrEqual(t, idx, 0)
	return strings.TrimSpace(body[idx+len(marker):])
}
