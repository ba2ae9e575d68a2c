package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req model.SignUpRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	name, errMsg := middleware.ValidateName(req.Name)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Name = name

	email, errMsg := middleware.ValidateEmail(req.Email)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Email = email

	if errMsg := middleware.ValidatePassword(req.Password); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.SignUp(c.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE", "Name or email already in use")
		}
		return respondError(c, err, "Failed to create account")
	}

	setAuthCookie(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  resp.User.PublicProfile(),
		"token": resp.Token,
	})
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var req model.SignInRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Name == "" || req.Password == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "name and password are required")
	}

	resp, err := h.svc.SignIn(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong name or password")
		}
		return respondError(c, err, "Failed to sign in")
	}

	setAuthCookie(c, resp.Token)
	return c.JSON(fiber.Map{
		"user":  resp.User.PublicProfile(),
		"token": resp.Token,
	})
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"success": true})
}

func setAuthCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
