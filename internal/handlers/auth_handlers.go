package handlers

import (
	"errors"
	"net/http"

	"shopkart/internal/common"
	"shopkart/internal/models"
	"shopkart/internal/repositories"
	"shopkart/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration, login and account management.
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req services.SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.Signup(c.Request().Context(), &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Username == "" || req.Password == "" {
		return common.SendClientError(c, "Username and password are required")
	}

	tokenResp, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrTooManyAttempts) {
			return c.JSON(http.StatusTooManyRequests, common.ErrorResponse{Error: err.Error()})
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, common.ErrorResponse{Error: "Invalid username or password"})
		}
		return common.SendServerError(c, "Failed to log in", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token":  tokenResp.AccessToken,
		"refresh_token": tokenResp.RefreshToken,
		"expires_in":    tokenResp.ExpiresIn,
		"user":          user,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "A refresh token is required")
	}

	tokenResp, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, common.ErrorResponse{Error: "Invalid refresh token"})
		}
		return common.SendServerError(c, "Failed to refresh token", err.Error())
	}
	return c.JSON(http.StatusOK, tokenResp)
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.authService.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, common.ErrorResponse{Error: "Current password is incorrect"})
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to fetch profile", err.Error())
	}
	if user == nil {
		return common.SendNotFoundError(c, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /me/profile
func (h *AuthHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var profile models.Profile
	if err := c.Bind(&profile); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.userRepo.UpdateProfile(ctx, userID, &profile); err != nil {
		return common.SendServerError(c, "Failed to update profile", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}
