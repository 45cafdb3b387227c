package handler

import (
	"github.com/airsightlab/airsight-backend/internal/middleware"
	"github.com/airsightlab/airsight-backend/internal/service"
	"github.com/gofiber/fiber/v3"
)

// QuestionnaireHandler handles the onboarding questionnaire endpoints.
// All routes require an authenticated user.
type QuestionnaireHandler struct {
	questionnaires *service.QuestionnaireService
}

// NewQuestionnaireHandler creates a new questionnaire handler.
func NewQuestionnaireHandler(questionnaires *service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaires: questionnaires}
}

// Register sets up questionnaire routes on a protected group.
func (h *QuestionnaireHandler) Register(auth fiber.Router) {
	auth.Put("/user/type", h.UpdateUserType)

	individual := auth.Group("/individual")
	individual.Post("/step1", h.SaveIndividualStep1)
	individual.Post("/step2", h.SaveIndividualStep2)
	individual.Post("/step3", h.SaveIndividualStep3)
	individual.Put("/step1/:id", h.UpdateIndividualStep1)
	individual.Put("/step2/:id", h.UpdateIndividualStep2)
	individual.Put("/step3/:id", h.UpdateIndividualStep3)
	individual.Post("/submit", h.SubmitIndividual)

	firm := auth.Group("/firm")
	firm.Post("/step1", h.SaveFirmStep1)
	firm.Post("/step2", h.SaveFirmStep2)
	firm.Post("/step3", h.SaveFirmStep3)
	firm.Put("/step1/:id", h.UpdateFirmStep1)
	firm.Put("/step2/:id", h.UpdateFirmStep2)
	firm.Put("/step3/:id", h.UpdateFirmStep3)
	firm.Post("/submit", h.SubmitFirm)
}

// UpdateUserType sets the account type that selects the questionnaire
// variant.
func (h *QuestionnaireHandler) UpdateUserType(c fiber.Ctx) error {
	var body struct {
		Type string `json:"type"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	user := middleware.GetUser(c)
	if err := h.questionnaires.UpdateUserType(c.Context(), user, body.Type); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User type updated", "user": user})
}

// --- Individual steps ---

func (h *QuestionnaireHandler) SaveIndividualStep1(c fiber.Ctx) error {
	var in service.IndividualStep1Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.SaveIndividualStep1(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 1 saved", "data": step})
}

func (h *QuestionnaireHandler) SaveIndividualStep2(c fiber.Ctx) error {
	var in service.IndividualStep2Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.SaveIndividualStep2(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 2 saved", "data": step})
}

func (h *QuestionnaireHandler) SaveIndividualStep3(c fiber.Ctx) error {
	var in service.IndividualStep3Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.SaveIndividualStep3(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 3 saved", "data": step})
}

func (h *QuestionnaireHandler) UpdateIndividualStep1(c fiber.Ctx) error {
	var in service.IndividualStep1Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.UpdateIndividualStep1(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 1 updated", "data": step})
}

func (h *QuestionnaireHandler) UpdateIndividualStep2(c fiber.Ctx) error {
	var in service.IndividualStep2Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.UpdateIndividualStep2(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 2 updated", "data": step})
}

func (h *QuestionnaireHandler) UpdateIndividualStep3(c fiber.Ctx) error {
	var in service.IndividualStep3Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.UpdateIndividualStep3(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 3 updated", "data": step})
}

func (h *QuestionnaireHandler) SubmitIndividual(c fiber.Ctx) error {
	steps, err := h.questionnaires.SubmitIndividual(c.Context(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Questionnaire completed", "steps": steps})
}

// --- Firm steps ---

func (h *QuestionnaireHandler) SaveFirmStep1(c fiber.Ctx) error {
	var in service.FirmStep1Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.SaveFirmStep1(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 1 saved", "data": step})
}

func (h *QuestionnaireHandler) SaveFirmStep2(c fiber.Ctx) error {
	var in service.FirmStep2Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.SaveFirmStep2(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 2 saved", "data": step})
}

func (h *QuestionnaireHandler) SaveFirmStep3(c fiber.Ctx) error {
	var in service.FirmStep3Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.SaveFirmStep3(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 3 saved", "data": step})
}

func (h *QuestionnaireHandler) UpdateFirmStep1(c fiber.Ctx) error {
	var in service.FirmStep1Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.UpdateFirmStep1(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 1 updated", "data": step})
}

func (h *QuestionnaireHandler) UpdateFirmStep2(c fiber.Ctx) error {
	var in service.FirmStep2Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.UpdateFirmStep2(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 2 updated", "data": step})
}

func (h *QuestionnaireHandler) UpdateFirmStep3(c fiber.Ctx) error {
	var in service.FirmStep3Input
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	step, err := h.questionnaires.UpdateFirmStep3(c.Context(), middleware.GetUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Step 3 updated", "data": step})
}

func (h *QuestionnaireHandler) SubmitFirm(c fiber.Ctx) error {
	steps, err := h.questionnaires.SubmitFirm(c.Context(), middleware.GetUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Firm Questionnaire completed", "steps": steps})
}
