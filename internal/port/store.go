package port

import (
	"context"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
)

// UserStore is the persistence contract for the user aggregate. Every
// mutation is a single read-modify-write against one row; concurrent
// writers race last-write-wins.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrUserExists when the email
	// is already taken.
	CreateUser(ctx context.Context, u *domain.User) error

	// GetUserByID returns ErrUserNotFound when no such user exists.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)

	// GetUserByEmail returns ErrUserNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserByProviderID looks a user up by OAuth linkage ("google" or
	// "facebook"). Returns ErrUserNotFound when no account is linked.
	GetUserByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error)

	// GetUserByResetToken matches the stored reset-token hash with an
	// expiry still in the future. Returns ErrUserNotFound otherwise.
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	// UpdateUser writes the whole user record back.
	UpdateUser(ctx context.Context, u *domain.User) error

	// UpdateLastWeatherCheck and UpdateLastAirQualityCheck write only the
	// corresponding cache column.
	UpdateLastWeatherCheck(ctx context.Context, userID string, check *domain.GeoCheck) error
	UpdateLastAirQualityCheck(ctx context.Context, userID string, check *domain.GeoCheck) error
}

// SiteStore serves the read-only map-marker collection.
type SiteStore interface {
	ListSites(ctx context.Context) ([]domain.Site, error)
}
