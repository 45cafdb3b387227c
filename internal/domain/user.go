package domain

import (
	"encoding/json"
	"time"
)

// Account types selectable after registration. The zero value means the
// user has not picked one yet.
const (
	AccountTypeIndividual = "individual"
	AccountTypeFirm       = "firm"
)

// User is the single aggregate root: identity, credentials, OAuth linkage,
// questionnaire state and last-query caches all live on one record.
type User struct {
	ID           string `json:"id"           db:"id"`
	Email        string `json:"email"        db:"email"`
	Name         string `json:"name"         db:"name"`
	PasswordHash string `json:"-"            db:"password_hash"` // empty for OAuth-only accounts
	GoogleID     string `json:"google_id,omitempty"   db:"google_id"`
	FacebookID   string `json:"facebook_id,omitempty" db:"facebook_id"`
	AvatarURL    string `json:"avatar_url,omitempty"  db:"avatar_url"`

	// Password-reset lifecycle. Only the sha256 hash of the raw token is
	// stored; the raw token goes out in the reset email and nowhere else.
	ResetTokenHash   string     `json:"-" db:"reset_token_hash"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`

	AccountType string `json:"account_type,omitempty" db:"account_type"`

	IndividualQuestionnaire   *IndividualQuestionnaire `json:"individual_questionnaire,omitempty" db:"individual_questionnaire"`
	FirmQuestionnaire         *FirmQuestionnaire       `json:"firm_questionnaire,omitempty"       db:"firm_questionnaire"`
	HasCompletedQuestionnaire bool                     `json:"has_completed_questionnaire"        db:"has_completed_questionnaire"`

	LastWeatherCheck    *GeoCheck `json:"last_weather_check,omitempty"     db:"last_weather_check"`
	LastAirQualityCheck *GeoCheck `json:"last_air_quality_check,omitempty" db:"last_air_quality_check"`

	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// GeoCheck caches the last upstream geodata response attached to a user.
// Data holds the provider's raw payload; its shape is owned by the
// provider, not by us.
type GeoCheck struct {
	City      string          `json:"city,omitempty"`
	Lat       string          `json:"lat,omitempty"`
	Lon       string          `json:"lon,omitempty"`
	Data      json.RawMessage `json:"data"`
	CheckedAt time.Time       `json:"checked_at"`
}

// IndividualQuestionnaire holds the three-step onboarding form for
// individual accounts. A nil step means it was never created.
type IndividualQuestionnaire struct {
	Step1 *IndividualStep1 `json:"step1,omitempty"`
	Step2 *IndividualStep2 `json:"step2,omitempty"`
	Step3 *IndividualStep3 `json:"step3,omitempty"`
}

// Complete reports whether all three steps have been saved.
func (q *IndividualQuestionnaire) Complete() bool {
	return q != nil && q.Step1 != nil && q.Step2 != nil && q.Step3 != nil
}

type IndividualStep1 struct {
	FullName                      string `json:"fullName"`
	Age                           int    `json:"age"`
	Gender                        string `json:"gender"`
	SensitiveToWeatherOrAllergies bool   `json:"sensitiveToWeatherOrAllergies"`
}

type IndividualStep2 struct {
	TimeOutdoorsDaily string           `json:"timeOutdoorsDaily"`
	PublicTransport   bool             `json:"publicTransport"`
	ExerciseOutdoors  ExerciseOutdoors `json:"exerciseOutdoors"`
}

type ExerciseOutdoors struct {
	DoExercise bool   `json:"doExercise"`
	Frequency  string `json:"frequency,omitempty"`
}

type IndividualStep3 struct {
	MainGoal     string `json:"mainGoal"`
	HealthGoals  string `json:"healthGoals,omitempty"`
	Improvements string `json:"improvements,omitempty"`
}

// FirmQuestionnaire holds the three-step onboarding form for firm accounts.
type FirmQuestionnaire struct {
	Step1 *FirmStep1 `json:"step1,omitempty"`
	Step2 *FirmStep2 `json:"step2,omitempty"`
	Step3 *FirmStep3 `json:"step3,omitempty"`
}

// Complete reports whether all three steps have been saved.
func (q *FirmQuestionnaire) Complete() bool {
	return q != nil && q.Step1 != nil && q.Step2 != nil && q.Step3 != nil
}

type FirmStep1 struct {
	CompanyName      string `json:"companyName"`
	Email            string `json:"email"`
	Location         string `json:"location"`
	ProjectType      string `json:"projectType"`
	EmployeesPerSite int    `json:"employeesPerSite"`
}

type FirmStep2 struct {
	AirQualityAssessment bool   `json:"airQualityAssessment"`
	GreenMaterials       bool   `json:"greenMaterials"`
	LowPollutionInterest bool   `json:"lowPollutionInterest"`
	ConcernedPollutants  string `json:"concernedPollutants"`
}

type FirmStep3 struct {
	GreenSpacesPlan       bool   `json:"greenSpacesPlan"`
	MonthlyAQIReports     bool   `json:"monthlyAQIReports"`
	Certifications        string `json:"certifications"`
	SustainabilityEfforts string `json:"sustainabilityEfforts,omitempty"`
}

// OAuthProfile is the normalized identity returned by an OAuth provider.
type OAuthProfile struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
}

// TokenPair holds the OAuth2 tokens returned after code exchange.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
