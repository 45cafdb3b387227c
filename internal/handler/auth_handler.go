package handler

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/airsightlab/airsight-backend/internal/service"
	"github.com/gofiber/fiber/v3"
)

// AuthHandler handles the public authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	providers   port.OAuthProviderRegistry
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, providers port.OAuthProviderRegistry) *AuthHandler {
	return &AuthHandler{authService: authService, providers: providers}
}

// Register sets up the public auth routes. OAuth routes are registered
// per configured provider, so Facebook only appears when credentials
// were supplied.
func (h *AuthHandler) Register(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", h.RegisterUser)
	auth.Post("/login", h.Login)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password/:token", h.ResetPassword)

	for name := range h.providers {
		auth.Get("/"+name, h.oauthRedirect(name))
		auth.Get("/"+name+"/callback", h.oauthCallback(name))
	}
}

// RegisterUser creates a local-credential account.
func (h *AuthHandler) RegisterUser(c fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	token, user, err := h.authService.Register(c.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

// Login authenticates local credentials.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	token, user, err := h.authService.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

// ForgotPassword starts the reset flow for the given email.
func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.authService.RequestPasswordReset(c.Context(), body.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Reset email sent"})
}

// ResetPassword consumes a raw reset token from the URL.
func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.authService.ResetPassword(c.Context(), c.Params("token"), body.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Password reset successful"})
}

func (h *AuthHandler) oauthRedirect(provider string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authURL, err := h.authService.AuthURL(provider, generateState())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Redirect().To(authURL)
	}
}

func (h *AuthHandler) oauthCallback(provider string) fiber.Handler {
	return func(c fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing authorization code"})
		}

		token, user, err := h.authService.HandleOAuthCallback(c.Context(), provider, code)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"token": token, "user": user})
	}
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
