package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/lib/pq"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		google_id TEXT UNIQUE,
		facebook_id TEXT UNIQUE,
		avatar_url TEXT NOT NULL DEFAULT '',
		reset_token_hash TEXT NOT NULL DEFAULT '',
		reset_token_expiry TIMESTAMPTZ,
		account_type TEXT NOT NULL DEFAULT '',
		individual_questionnaire JSONB,
		firm_questionnaire JSONB,
		has_completed_questionnaire BOOLEAN NOT NULL DEFAULT FALSE,
		last_weather_check JSONB,
		last_air_quality_check JSONB,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT 'anonymous',
		action TEXT NOT NULL,
		resource TEXT NOT NULL,
		details JSONB,
		ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const userColumns = `id, email, name, password_hash,
	COALESCE(google_id, ''), COALESCE(facebook_id, ''), avatar_url,
	reset_token_hash, reset_token_expiry, account_type,
	individual_questionnaire, firm_questionnaire, has_completed_questionnaire,
	last_weather_check, last_air_quality_check,
	is_active, created_at, updated_at`

// CreateUser inserts a new user record.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, name, password_hash, google_id, facebook_id, avatar_url,
	            reset_token_hash, reset_token_expiry, account_type,
	            individual_questionnaire, firm_questionnaire, has_completed_questionnaire,
	            last_weather_check, last_air_quality_check, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.GoogleID, u.FacebookID, u.AvatarURL,
		u.ResetTokenHash, nullTime(u.ResetTokenExpiry), u.AccountType,
		mustJSON(u.IndividualQuestionnaire), mustJSON(u.FirmQuestionnaire), u.HasCompletedQuestionnaire,
		mustJSON(u.LastWeatherCheck), mustJSON(u.LastAirQualityCheck), u.IsActive,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return port.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByEmail retrieves a user by email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetUserByProviderID looks a user up by OAuth linkage.
func (s *PostgresStore) GetUserByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error) {
	col := "google_id"
	if provider == "facebook" {
		col = "facebook_id"
	}
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE `+col+` = $1`, providerID)
}

// GetUserByResetToken matches the stored reset-token hash with an expiry
// still in the future.
func (s *PostgresStore) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE reset_token_hash = $1 AND reset_token_hash <> '' AND reset_token_expiry > $2`
	return s.getUser(ctx, query, tokenHash, now)
}

// UpdateUser writes the whole user record back.
func (s *PostgresStore) UpdateUser(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET
	            email = $2, name = $3, password_hash = $4,
	            google_id = NULLIF($5, ''), facebook_id = NULLIF($6, ''), avatar_url = $7,
	            reset_token_hash = $8, reset_token_expiry = $9, account_type = $10,
	            individual_questionnaire = $11, firm_questionnaire = $12,
	            has_completed_questionnaire = $13,
	            last_weather_check = $14, last_air_quality_check = $15,
	            is_active = $16, updated_at = NOW()
	          WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.GoogleID, u.FacebookID, u.AvatarURL,
		u.ResetTokenHash, nullTime(u.ResetTokenExpiry), u.AccountType,
		mustJSON(u.IndividualQuestionnaire), mustJSON(u.FirmQuestionnaire), u.HasCompletedQuestionnaire,
		mustJSON(u.LastWeatherCheck), mustJSON(u.LastAirQualityCheck), u.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return port.ErrUserNotFound
	}
	return nil
}

// UpdateLastWeatherCheck writes only the weather cache column.
func (s *PostgresStore) UpdateLastWeatherCheck(ctx context.Context, userID string, check *domain.GeoCheck) error {
	query := `UPDATE users SET last_weather_check = $2, updated_at = NOW() WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID, mustJSON(check)); err != nil {
		return fmt.Errorf("update last weather check: %w", err)
	}
	return nil
}

// UpdateLastAirQualityCheck writes only the air-quality cache column.
func (s *PostgresStore) UpdateLastAirQualityCheck(ctx context.Context, userID string, check *domain.GeoCheck) error {
	query := `UPDATE users SET last_air_quality_check = $2, updated_at = NOW() WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID, mustJSON(check)); err != nil {
		return fmt.Errorf("update last air quality check: %w", err)
	}
	return nil
}

func (s *PostgresStore) getUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var (
		u                 domain.User
		resetExpiry       sql.NullTime
		individualQ       []byte
		firmQ             []byte
		lastWeatherCheck  []byte
		lastAirQuality    []byte
	)

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.GoogleID, &u.FacebookID, &u.AvatarURL,
		&u.ResetTokenHash, &resetExpiry, &u.AccountType,
		&individualQ, &firmQ, &u.HasCompletedQuestionnaire,
		&lastWeatherCheck, &lastAirQuality,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if resetExpiry.Valid {
		t := resetExpiry.Time
		u.ResetTokenExpiry = &t
	}
	if err := fromJSON(individualQ, &u.IndividualQuestionnaire); err != nil {
		return nil, fmt.Errorf("decode individual questionnaire: %w", err)
	}
	if err := fromJSON(firmQ, &u.FirmQuestionnaire); err != nil {
		return nil, fmt.Errorf("decode firm questionnaire: %w", err)
	}
	if err := fromJSON(lastWeatherCheck, &u.LastWeatherCheck); err != nil {
		return nil, fmt.Errorf("decode last weather check: %w", err)
	}
	if err := fromJSON(lastAirQuality, &u.LastAirQualityCheck); err != nil {
		return nil, fmt.Errorf("decode last air quality check: %w", err)
	}
	return &u, nil
}

// --- Sites ---

// ListSites returns every map-marker site.
func (s *PostgresStore) ListSites(ctx context.Context) ([]domain.Site, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, lat, lon FROM sites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		var site domain.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.Lat, &site.Lon); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userID, action, resource, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (user_id, action, resource, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4::jsonb, $5, $6)`
	_, err := s.db.ExecContext(context.Background(), query,
		userID, action, resource, details, ip, userAgent,
	)
	return err
}

// --- helpers ---

// mustJSON marshals a value for a JSONB column; a nil pointer becomes SQL NULL.
func mustJSON(v any) any {
	switch t := v.(type) {
	case *domain.IndividualQuestionnaire:
		if t == nil {
			return nil
		}
	case *domain.FirmQuestionnaire:
		if t == nil {
			return nil
		}
	case *domain.GeoCheck:
		if t == nil {
			return nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func fromJSON[T any](raw []byte, dst **T) error {
	if len(raw) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
