package service

import (
	"context"
	"testing"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func newQuestionnaireFixture(t *testing.T) (*QuestionnaireService, *stubStore, *domain.User) {
	t.Helper()
	store := newStubStore()
	user := &domain.User{ID: "u1", Email: "a@x.com", IsActive: true}
	store.setUser(user)
	return NewQuestionnaireService(store), store, user
}

func validIndividualStep1() IndividualStep1Input {
	return IndividualStep1Input{FullName: "A", Age: 30, Gender: "male"}
}

func validIndividualStep2() IndividualStep2Input {
	return IndividualStep2Input{TimeOutdoorsDaily: "2h", PublicTransport: boolPtr(true)}
}

func validFirmStep1() FirmStep1Input {
	return FirmStep1Input{
		CompanyName:      "Acme",
		Email:            "firm@x.com",
		Location:         "Cairo",
		ProjectType:      "office",
		EmployeesPerSite: 40,
	}
}

func validFirmStep2() FirmStep2Input {
	return FirmStep2Input{
		AirQualityAssessment: boolPtr(true),
		GreenMaterials:       boolPtr(false),
		LowPollutionInterest: boolPtr(true),
		ConcernedPollutants:  "PM2.5",
	}
}

func validFirmStep3() FirmStep3Input {
	return FirmStep3Input{
		GreenSpacesPlan:   boolPtr(true),
		MonthlyAQIReports: boolPtr(false),
		Certifications:    "LEED",
	}
}

func TestUpdateUserType(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateUserType(ctx, user, domain.AccountTypeFirm))
	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AccountTypeFirm, stored.AccountType)

	var validationErr *port.ValidationError
	err = svc.UpdateUserType(ctx, user, "company")
	require.ErrorAs(t, err, &validationErr)
}

func TestSaveIndividualStep1Validation(t *testing.T) {
	svc, _, user := newQuestionnaireFixture(t)

	_, err := svc.SaveIndividualStep1(context.Background(), user, IndividualStep1Input{Gender: "other"})
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{
		"fullName is required",
		"age must be a positive number",
		"gender must be male or female",
	}, validationErr.Details)
}

func TestIndividualStep2FrequencyRule(t *testing.T) {
	svc, _, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	in := validIndividualStep2()
	in.DoExercise = true
	_, err := svc.SaveIndividualStep2(ctx, user, in)
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Details, "frequency is required if doExercise is true")

	in.Frequency = "daily"
	step, err := svc.SaveIndividualStep2(ctx, user, in)
	require.NoError(t, err)
	require.True(t, step.ExerciseOutdoors.DoExercise)
	require.Equal(t, "daily", step.ExerciseOutdoors.Frequency)
}

func TestUpdateBeforeCreateFails(t *testing.T) {
	svc, _, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateIndividualStep1(ctx, user, validIndividualStep1())
	require.ErrorIs(t, err, port.ErrStepNotFound)

	_, err = svc.UpdateFirmStep2(ctx, user, validFirmStep2())
	require.ErrorIs(t, err, port.ErrStepNotFound)
}

func TestUpdateIndividualStepFullReplace(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.SaveIndividualStep1(ctx, user, IndividualStep1Input{
		FullName: "A", Age: 30, Gender: "male", SensitiveToWeatherOrAllergies: true,
	})
	require.NoError(t, err)

	// every field is required again; a missing fullName is a validation
	// error, not a fallback
	_, err = svc.UpdateIndividualStep1(ctx, user, IndividualStep1Input{Age: 30, Gender: "male"})
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Details, "fullName is required")

	// a full update replaces the step wholesale: the omitted optional
	// boolean resets to false
	_, err = svc.UpdateIndividualStep1(ctx, user, IndividualStep1Input{FullName: "B", Age: 31, Gender: "female"})
	require.NoError(t, err)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	step := stored.IndividualQuestionnaire.Step1
	require.Equal(t, "B", step.FullName)
	require.Equal(t, 31, step.Age)
	require.False(t, step.SensitiveToWeatherOrAllergies)
}

func TestUpdateFirmStep1PartialFallback(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.SaveFirmStep1(ctx, user, validFirmStep1())
	require.NoError(t, err)

	_, err = svc.UpdateFirmStep1(ctx, user, FirmStep1Input{CompanyName: "Globex"})
	require.NoError(t, err)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	step := stored.FirmQuestionnaire.Step1
	require.Equal(t, "Globex", step.CompanyName)
	require.Equal(t, "firm@x.com", step.Email)
	require.Equal(t, "Cairo", step.Location)
	require.Equal(t, "office", step.ProjectType)
	require.Equal(t, 40, step.EmployeesPerSite)
}

func TestUpdateFirmStep2BooleanFallback(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.SaveFirmStep2(ctx, user, validFirmStep2())
	require.NoError(t, err)

	// an explicit false overrides; omitted booleans keep stored values
	_, err = svc.UpdateFirmStep2(ctx, user, FirmStep2Input{AirQualityAssessment: boolPtr(false)})
	require.NoError(t, err)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	step := stored.FirmQuestionnaire.Step2
	require.False(t, step.AirQualityAssessment)
	require.False(t, step.GreenMaterials)
	require.True(t, step.LowPollutionInterest)
	require.Equal(t, "PM2.5", step.ConcernedPollutants)
}

func TestSaveFirmStep2RequiresBooleans(t *testing.T) {
	svc, _, user := newQuestionnaireFixture(t)

	_, err := svc.SaveFirmStep2(context.Background(), user, FirmStep2Input{ConcernedPollutants: "NO2"})
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{
		"airQualityAssessment must be true/false",
		"greenMaterials must be true/false",
		"lowPollutionInterest must be true/false",
	}, validationErr.Details)
}

func TestSubmitIndividual(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.SubmitIndividual(ctx, user)
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.SaveIndividualStep1(ctx, user, validIndividualStep1())
	require.NoError(t, err)
	_, err = svc.SaveIndividualStep2(ctx, user, validIndividualStep2())
	require.NoError(t, err)

	// still incomplete without step 3
	_, err = svc.SubmitIndividual(ctx, user)
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.SaveIndividualStep3(ctx, user, IndividualStep3Input{MainGoal: "breathe"})
	require.NoError(t, err)

	steps, err := svc.SubmitIndividual(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, steps.Step1)
	require.NotNil(t, steps.Step2)
	require.NotNil(t, steps.Step3)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.HasCompletedQuestionnaire)

	// idempotent
	_, err = svc.SubmitIndividual(ctx, user)
	require.NoError(t, err)
}

func TestSaveStep3AutoCompletes(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	// a bare step-3 save completes the questionnaire even without steps 1-2
	_, err := svc.SaveIndividualStep3(ctx, user, IndividualStep3Input{MainGoal: "breathe"})
	require.NoError(t, err)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.HasCompletedQuestionnaire)
	require.Nil(t, stored.IndividualQuestionnaire.Step1)
	require.Nil(t, stored.IndividualQuestionnaire.Step2)

	// submit still demands all three steps
	_, err = svc.SubmitIndividual(ctx, user)
	var validationErr *port.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestFirmStep3AutoCompletes(t *testing.T) {
	svc, store, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.SaveFirmStep3(ctx, user, validFirmStep3())
	require.NoError(t, err)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.HasCompletedQuestionnaire)
}

func TestSubmitFirm(t *testing.T) {
	svc, _, user := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := svc.SaveFirmStep1(ctx, user, validFirmStep1())
	require.NoError(t, err)
	_, err = svc.SaveFirmStep2(ctx, user, validFirmStep2())
	require.NoError(t, err)
	_, err = svc.SaveFirmStep3(ctx, user, validFirmStep3())
	require.NoError(t, err)

	steps, err := svc.SubmitFirm(ctx, user)
	require.NoError(t, err)
	require.True(t, steps.Complete())
}
