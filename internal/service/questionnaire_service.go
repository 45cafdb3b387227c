package service

import (
	"context"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/port"
)

// QuestionnaireService enforces the ordered, per-account-type, multi-step
// onboarding workflow. Each step write is an independent read-modify-write
// against the user record.
//
// The two variants deliberately differ on update semantics: individual
// steps are replaced wholesale, firm steps merge omitted fields back from
// the stored value.
type QuestionnaireService struct {
	users port.UserStore
}

// NewQuestionnaireService creates a new questionnaire service.
func NewQuestionnaireService(users port.UserStore) *QuestionnaireService {
	return &QuestionnaireService{users: users}
}

// UpdateUserType sets the account type that decides which questionnaire
// variant applies.
func (s *QuestionnaireService) UpdateUserType(ctx context.Context, user *domain.User, accountType string) error {
	if accountType != domain.AccountTypeIndividual && accountType != domain.AccountTypeFirm {
		return port.Validation("Invalid type")
	}
	user.AccountType = accountType
	return s.users.UpdateUser(ctx, user)
}

// --- Individual questionnaire ---

// IndividualStep1Input carries the recognized fields for individual step 1.
type IndividualStep1Input struct {
	FullName                      string `json:"fullName"`
	Age                           int    `json:"age"`
	Gender                        string `json:"gender"`
	SensitiveToWeatherOrAllergies bool   `json:"sensitiveToWeatherOrAllergies"`
}

func (in *IndividualStep1Input) validate() []string {
	var errs []string
	if in.FullName == "" {
		errs = append(errs, "fullName is required")
	}
	if in.Age <= 0 {
		errs = append(errs, "age must be a positive number")
	}
	if in.Gender != "male" && in.Gender != "female" {
		errs = append(errs, "gender must be male or female")
	}
	return errs
}

func (in *IndividualStep1Input) toStep() *domain.IndividualStep1 {
	return &domain.IndividualStep1{
		FullName:                      in.FullName,
		Age:                           in.Age,
		Gender:                        in.Gender,
		SensitiveToWeatherOrAllergies: in.SensitiveToWeatherOrAllergies,
	}
}

// IndividualStep2Input carries the recognized fields for individual step 2.
// PublicTransport is a pointer so a missing boolean is distinguishable
// from false.
type IndividualStep2Input struct {
	TimeOutdoorsDaily string `json:"timeOutdoorsDaily"`
	PublicTransport   *bool  `json:"publicTransport"`
	DoExercise        bool   `json:"doExercise"`
	Frequency         string `json:"frequency"`
}

func (in *IndividualStep2Input) validate() []string {
	var errs []string
	if in.TimeOutdoorsDaily == "" {
		errs = append(errs, "timeOutdoorsDaily is required")
	}
	if in.PublicTransport == nil {
		errs = append(errs, "publicTransport must be true/false")
	}
	if in.DoExercise && in.Frequency == "" {
		errs = append(errs, "frequency is required if doExercise is true")
	}
	return errs
}

func (in *IndividualStep2Input) toStep() *domain.IndividualStep2 {
	return &domain.IndividualStep2{
		TimeOutdoorsDaily: in.TimeOutdoorsDaily,
		PublicTransport:   *in.PublicTransport,
		ExerciseOutdoors: domain.ExerciseOutdoors{
			DoExercise: in.DoExercise,
			Frequency:  in.Frequency,
		},
	}
}

// IndividualStep3Input carries the recognized fields for individual step 3.
type IndividualStep3Input struct {
	MainGoal     string `json:"mainGoal"`
	HealthGoals  string `json:"healthGoals"`
	Improvements string `json:"improvements"`
}

func (in *IndividualStep3Input) validate() []string {
	if in.MainGoal == "" {
		return []string{"mainGoal is required"}
	}
	return nil
}

func (in *IndividualStep3Input) toStep() *domain.IndividualStep3 {
	return &domain.IndividualStep3{
		MainGoal:     in.MainGoal,
		HealthGoals:  in.HealthGoals,
		Improvements: in.Improvements,
	}
}

// SaveIndividualStep1 validates and stores step 1, creating the
// questionnaire container on first use.
func (s *QuestionnaireService) SaveIndividualStep1(ctx context.Context, user *domain.User, in IndividualStep1Input) (*domain.IndividualStep1, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	q := ensureIndividual(user)
	q.Step1 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return q.Step1, nil
}

// UpdateIndividualStep1 replaces step 1 in place. The step must have been
// created first.
func (s *QuestionnaireService) UpdateIndividualStep1(ctx context.Context, user *domain.User, in IndividualStep1Input) (*domain.IndividualStep1, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	if user.IndividualQuestionnaire == nil || user.IndividualQuestionnaire.Step1 == nil {
		return nil, port.ErrStepNotFound
	}
	user.IndividualQuestionnaire.Step1 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.IndividualQuestionnaire.Step1, nil
}

// SaveIndividualStep2 validates and stores step 2.
func (s *QuestionnaireService) SaveIndividualStep2(ctx context.Context, user *domain.User, in IndividualStep2Input) (*domain.IndividualStep2, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	q := ensureIndividual(user)
	q.Step2 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return q.Step2, nil
}

// UpdateIndividualStep2 replaces step 2 in place.
func (s *QuestionnaireService) UpdateIndividualStep2(ctx context.Context, user *domain.User, in IndividualStep2Input) (*domain.IndividualStep2, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	if user.IndividualQuestionnaire == nil || user.IndividualQuestionnaire.Step2 == nil {
		return nil, port.ErrStepNotFound
	}
	user.IndividualQuestionnaire.Step2 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.IndividualQuestionnaire.Step2, nil
}

// SaveIndividualStep3 validates and stores step 3. A bare step-3 save
// marks the questionnaire completed regardless of steps 1-2.
func (s *QuestionnaireService) SaveIndividualStep3(ctx context.Context, user *domain.User, in IndividualStep3Input) (*domain.IndividualStep3, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	q := ensureIndividual(user)
	q.Step3 = in.toStep()
	user.HasCompletedQuestionnaire = true
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return q.Step3, nil
}

// UpdateIndividualStep3 replaces step 3 in place.
func (s *QuestionnaireService) UpdateIndividualStep3(ctx context.Context, user *domain.User, in IndividualStep3Input) (*domain.IndividualStep3, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	if user.IndividualQuestionnaire == nil || user.IndividualQuestionnaire.Step3 == nil {
		return nil, port.ErrStepNotFound
	}
	user.IndividualQuestionnaire.Step3 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.IndividualQuestionnaire.Step3, nil
}

// SubmitIndividual finalizes the individual questionnaire once all three
// steps exist. Submission is idempotent.
func (s *QuestionnaireService) SubmitIndividual(ctx context.Context, user *domain.User) (*domain.IndividualQuestionnaire, error) {
	if !user.IndividualQuestionnaire.Complete() {
		return nil, port.Validation("All steps must be completed before submit")
	}
	user.HasCompletedQuestionnaire = true
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.IndividualQuestionnaire, nil
}

// --- Firm questionnaire ---

// FirmStep1Input carries the recognized fields for firm step 1. On update,
// zero-valued fields fall back to the stored step.
type FirmStep1Input struct {
	CompanyName      string `json:"companyName"`
	Email            string `json:"email"`
	Location         string `json:"location"`
	ProjectType      string `json:"projectType"`
	EmployeesPerSite int    `json:"employeesPerSite"`
}

func (in *FirmStep1Input) validate() []string {
	var errs []string
	if in.CompanyName == "" {
		errs = append(errs, "companyName is required")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	}
	if in.Location == "" {
		errs = append(errs, "location is required")
	}
	if in.ProjectType == "" {
		errs = append(errs, "projectType is required")
	}
	if in.EmployeesPerSite == 0 {
		errs = append(errs, "employeesPerSite must be a number")
	}
	return errs
}

func (in *FirmStep1Input) toStep() *domain.FirmStep1 {
	return &domain.FirmStep1{
		CompanyName:      in.CompanyName,
		Email:            in.Email,
		Location:         in.Location,
		ProjectType:      in.ProjectType,
		EmployeesPerSite: in.EmployeesPerSite,
	}
}

func (in *FirmStep1Input) mergeInto(stored *domain.FirmStep1) {
	if in.CompanyName != "" {
		stored.CompanyName = in.CompanyName
	}
	if in.Email != "" {
		stored.Email = in.Email
	}
	if in.Location != "" {
		stored.Location = in.Location
	}
	if in.ProjectType != "" {
		stored.ProjectType = in.ProjectType
	}
	if in.EmployeesPerSite != 0 {
		stored.EmployeesPerSite = in.EmployeesPerSite
	}
}

// FirmStep2Input carries the recognized fields for firm step 2. Booleans
// are pointers so a missing value is distinguishable from false.
type FirmStep2Input struct {
	AirQualityAssessment *bool  `json:"airQualityAssessment"`
	GreenMaterials       *bool  `json:"greenMaterials"`
	LowPollutionInterest *bool  `json:"lowPollutionInterest"`
	ConcernedPollutants  string `json:"concernedPollutants"`
}

func (in *FirmStep2Input) validate() []string {
	var errs []string
	if in.AirQualityAssessment == nil {
		errs = append(errs, "airQualityAssessment must be true/false")
	}
	if in.GreenMaterials == nil {
		errs = append(errs, "greenMaterials must be true/false")
	}
	if in.LowPollutionInterest == nil {
		errs = append(errs, "lowPollutionInterest must be true/false")
	}
	if in.ConcernedPollutants == "" {
		errs = append(errs, "concernedPollutants is required")
	}
	return errs
}

func (in *FirmStep2Input) toStep() *domain.FirmStep2 {
	return &domain.FirmStep2{
		AirQualityAssessment: *in.AirQualityAssessment,
		GreenMaterials:       *in.GreenMaterials,
		LowPollutionInterest: *in.LowPollutionInterest,
		ConcernedPollutants:  in.ConcernedPollutants,
	}
}

func (in *FirmStep2Input) mergeInto(stored *domain.FirmStep2) {
	if in.AirQualityAssessment != nil {
		stored.AirQualityAssessment = *in.AirQualityAssessment
	}
	if in.GreenMaterials != nil {
		stored.GreenMaterials = *in.GreenMaterials
	}
	if in.LowPollutionInterest != nil {
		stored.LowPollutionInterest = *in.LowPollutionInterest
	}
	if in.ConcernedPollutants != "" {
		stored.ConcernedPollutants = in.ConcernedPollutants
	}
}

// FirmStep3Input carries the recognized fields for firm step 3.
type FirmStep3Input struct {
	GreenSpacesPlan       *bool  `json:"greenSpacesPlan"`
	MonthlyAQIReports     *bool  `json:"monthlyAQIReports"`
	Certifications        string `json:"certifications"`
	SustainabilityEfforts string `json:"sustainabilityEfforts"`
}

func (in *FirmStep3Input) validate() []string {
	var errs []string
	if in.GreenSpacesPlan == nil {
		errs = append(errs, "greenSpacesPlan must be true/false")
	}
	if in.MonthlyAQIReports == nil {
		errs = append(errs, "monthlyAQIReports must be true/false")
	}
	if in.Certifications == "" {
		errs = append(errs, "certifications is required")
	}
	return errs
}

func (in *FirmStep3Input) toStep() *domain.FirmStep3 {
	return &domain.FirmStep3{
		GreenSpacesPlan:       *in.GreenSpacesPlan,
		MonthlyAQIReports:     *in.MonthlyAQIReports,
		Certifications:        in.Certifications,
		SustainabilityEfforts: in.SustainabilityEfforts,
	}
}

func (in *FirmStep3Input) mergeInto(stored *domain.FirmStep3) {
	if in.GreenSpacesPlan != nil {
		stored.GreenSpacesPlan = *in.GreenSpacesPlan
	}
	if in.MonthlyAQIReports != nil {
		stored.MonthlyAQIReports = *in.MonthlyAQIReports
	}
	if in.Certifications != "" {
		stored.Certifications = in.Certifications
	}
	if in.SustainabilityEfforts != "" {
		stored.SustainabilityEfforts = in.SustainabilityEfforts
	}
}

// SaveFirmStep1 validates and stores step 1, creating the questionnaire
// container on first use.
func (s *QuestionnaireService) SaveFirmStep1(ctx context.Context, user *domain.User, in FirmStep1Input) (*domain.FirmStep1, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	q := ensureFirm(user)
	q.Step1 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return q.Step1, nil
}

// UpdateFirmStep1 merges the supplied fields into the stored step; omitted
// fields keep their previous values.
func (s *QuestionnaireService) UpdateFirmStep1(ctx context.Context, user *domain.User, in FirmStep1Input) (*domain.FirmStep1, error) {
	if user.FirmQuestionnaire == nil || user.FirmQuestionnaire.Step1 == nil {
		return nil, port.ErrStepNotFound
	}
	merged := *user.FirmQuestionnaire.Step1
	in.mergeInto(&merged)
	if errs := (&FirmStep1Input{
		CompanyName:      merged.CompanyName,
		Email:            merged.Email,
		Location:         merged.Location,
		ProjectType:      merged.ProjectType,
		EmployeesPerSite: merged.EmployeesPerSite,
	}).validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	user.FirmQuestionnaire.Step1 = &merged
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.FirmQuestionnaire.Step1, nil
}

// SaveFirmStep2 validates and stores step 2.
func (s *QuestionnaireService) SaveFirmStep2(ctx context.Context, user *domain.User, in FirmStep2Input) (*domain.FirmStep2, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	q := ensureFirm(user)
	q.Step2 = in.toStep()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return q.Step2, nil
}

// UpdateFirmStep2 merges the supplied fields into the stored step.
func (s *QuestionnaireService) UpdateFirmStep2(ctx context.Context, user *domain.User, in FirmStep2Input) (*domain.FirmStep2, error) {
	if user.FirmQuestionnaire == nil || user.FirmQuestionnaire.Step2 == nil {
		return nil, port.ErrStepNotFound
	}
	merged := *user.FirmQuestionnaire.Step2
	in.mergeInto(&merged)
	if merged.ConcernedPollutants == "" {
		return nil, port.Validation("concernedPollutants is required")
	}
	user.FirmQuestionnaire.Step2 = &merged
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.FirmQuestionnaire.Step2, nil
}

// SaveFirmStep3 validates and stores step 3. Like the individual variant,
// a bare step-3 save marks the questionnaire completed regardless of
// steps 1-2.
func (s *QuestionnaireService) SaveFirmStep3(ctx context.Context, user *domain.User, in FirmStep3Input) (*domain.FirmStep3, error) {
	if errs := in.validate(); len(errs) > 0 {
		return nil, port.Validation(errs...)
	}
	q := ensureFirm(user)
	q.Step3 = in.toStep()
	user.HasCompletedQuestionnaire = true
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return q.Step3, nil
}

// UpdateFirmStep3 merges the supplied fields into the stored step.
func (s *QuestionnaireService) UpdateFirmStep3(ctx context.Context, user *domain.User, in FirmStep3Input) (*domain.FirmStep3, error) {
	if user.FirmQuestionnaire == nil || user.FirmQuestionnaire.Step3 == nil {
		return nil, port.ErrStepNotFound
	}
	merged := *user.FirmQuestionnaire.Step3
	in.mergeInto(&merged)
	if merged.Certifications == "" {
		return nil, port.Validation("certifications is required")
	}
	user.FirmQuestionnaire.Step3 = &merged
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.FirmQuestionnaire.Step3, nil
}

// SubmitFirm finalizes the firm questionnaire once all three steps exist.
// Submission is idempotent.
func (s *QuestionnaireService) SubmitFirm(ctx context.Context, user *domain.User) (*domain.FirmQuestionnaire, error) {
	if !user.FirmQuestionnaire.Complete() {
		return nil, port.Validation("All steps must be completed before submit")
	}
	user.HasCompletedQuestionnaire = true
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.FirmQuestionnaire, nil
}

func ensureIndividual(user *domain.User) *domain.IndividualQuestionnaire {
	if user.IndividualQuestionnaire == nil {
		user.IndividualQuestionnaire = &domain.IndividualQuestionnaire{}
	}
	return user.IndividualQuestionnaire
}

func ensureFirm(user *domain.User) *domain.FirmQuestionnaire {
	if user.FirmQuestionnaire == nil {
		user.FirmQuestionnaire = &domain.FirmQuestionnaire{}
	}
	return user.FirmQuestionnaire
}
