package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name                 string `json:"name"`
	NotificationsEnabled *bool  `json:"notifications_enabled"`
	ThemeDark            *bool  `json:"theme_dark"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:                   user.ID,
		Name:                 user.Name,
		Email:                user.Email,
		IsAdmin:              user.IsAdmin,
		IsProjectLeader:      user.IsProjectLeader,
		IsActive:             user.IsActive,
		NotificationsEnabled: user.NotificationsEnabled,
		ThemeDark:            user.ThemeDark,
	}
}

func setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := h.Users.Register(body.Name, body.Email, body.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	setSessionCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{"user": userResponse(user)})
}

func (h *Handler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := h.Users.Authenticate(body.Email, body.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	setSessionCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *Handler) Logout(ctx *gin.Context) {
	if user, err := utils.GetCurrentUser(ctx); err == nil {
		h.Users.Logout(user)
	}

	setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) Me(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *Handler) UpdateProfile(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updated, err := h.Users.UpdateProfile(user, services.ProfileInput{
		Name:                 strings.TrimSpace(body.Name),
		NotificationsEnabled: body.NotificationsEnabled,
		ThemeDark:            body.ThemeDark,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(updated)})
}

func (h *Handler) DeleteAccount(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Users.DeleteAccount(user); err != nil {
		respondError(ctx, err)
		return
	}

	setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *Handler) RequestPasswordReset(ctx *gin.Context) {
	var body PasswordResetRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resetURLBase := os.Getenv("CLIENT_URL") + "/password-reset"

	if err := h.Users.RequestPasswordReset(strings.ToLower(strings.TrimSpace(body.Email)), resetURLBase); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Reset instructions sent"})
}

func (h *Handler) ConfirmPasswordReset(ctx *gin.Context) {
	var body PasswordResetConfirmRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.Users.ConfirmPasswordReset(body.Token, body.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
