package service

import (
	"context"
	"sync"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/port"
)

// stubStore is an in-memory port.UserStore + port.SiteStore for tests.
type stubStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
	sites []domain.Site

	updateErr           error
	weatherCheckErr     error
	airQualityCheckErr  error
	lastWeatherWrite    *domain.GeoCheck
	lastAirQualityWrite *domain.GeoCheck
}

func newStubStore() *stubStore {
	return &stubStore{users: map[string]*domain.User{}}
}

func (s *stubStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return port.ErrUserExists
		}
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *stubStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *stubStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, port.ErrUserNotFound
}

func (s *stubStore) GetUserByProviderID(_ context.Context, provider, providerID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if provider == "facebook" && u.FacebookID == providerID {
			c := *u
			return &c, nil
		}
		if provider == "google" && u.GoogleID == providerID {
			c := *u
			return &c, nil
		}
	}
	return nil, port.ErrUserNotFound
}

func (s *stubStore) GetUserByResetToken(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			c := *u
			return &c, nil
		}
	}
	return nil, port.ErrUserNotFound
}

func (s *stubStore) UpdateUser(_ context.Context, u *domain.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return port.ErrUserNotFound
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *stubStore) UpdateLastWeatherCheck(_ context.Context, userID string, check *domain.GeoCheck) error {
	if s.weatherCheckErr != nil {
		return s.weatherCheckErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.LastWeatherCheck = check
	}
	s.lastWeatherWrite = check
	return nil
}

func (s *stubStore) UpdateLastAirQualityCheck(_ context.Context, userID string, check *domain.GeoCheck) error {
	if s.airQualityCheckErr != nil {
		return s.airQualityCheckErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.LastAirQualityCheck = check
	}
	s.lastAirQualityWrite = check
	return nil
}

func (s *stubStore) ListSites(_ context.Context) ([]domain.Site, error) {
	return s.sites, nil
}

// setUser overwrites a stored user directly, bypassing the store contract.
func (s *stubStore) setUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.users[u.ID] = &c
}

// stubMailer records outgoing mail.
type stubMailer struct {
	sendErr error
	to      []string
	bodies  []string
}

func (m *stubMailer) Send(to, _, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.to = append(m.to, to)
	m.bodies = append(m.bodies, body)
	return nil
}
