package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func setAuthCookie(c *gin.Context, accessToken string) {
	c.SetCookie(auth.AuthCookieName, accessToken, int(auth.AccessTokenTTL.Seconds()), "/", "", false, true)
}

// @Summary      Send email verification code
// @Description  Issues a 6-digit code valid for 15 minutes and emails it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.SendCodeRequest true "Email to verify"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/send-verification-code [post]
func (h *Handler) SendVerificationCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	if err := h.service.SendVerificationCode(c.Request.Context(), req.Email, req.Name); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Verification code sent"})
}

// @Summary      Register with a verification code
// @Description  Creates a verified member account if the 6-digit code matches.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.VerifiedRegisterRequest true "Registration data plus code"
// @Success      201 {object} user.LoginResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/register-verified [post]
func (h *Handler) RegisterVerified(c *gin.Context) {
	var req VerifiedRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, accessToken, refreshToken, err := h.service.RegisterVerified(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	setAuthCookie(c, accessToken)
	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *u,
	})
}

// @Summary      Register new user
// @Description  Creates a member account pending email verification.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.RegisterRequest true "User registration data"
// @Success      201 {object} user.LoginResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	setAuthCookie(c, accessToken)
	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *u,
	})
}

// @Summary      Login user
// @Description  Authenticates by email and password; suspended accounts are rejected.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.LoginRequest true "User credentials"
// @Success      200 {object} user.LoginResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	setAuthCookie(c, accessToken)
	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *u,
	})
}

// @Summary      Logout
// @Description  Clears the auth cookie.
// @Tags         auth
// @Produce      json
// @Success      200 {object} api.MessageResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(auth.AuthCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out"})
}

// @Summary      Get current user
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} user.User
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// @Summary      Update profile
// @Tags         user
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body user.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} user.User
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body map[string]string true "Refresh token payload"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "refresh_token is required"})
		return
	}

	newAccessToken, u, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.Respond(c, err)
		return
	}

	setAuthCookie(c, newAccessToken)
	c.JSON(http.StatusOK, gin.H{
		"access_token": newAccessToken,
		"user":         u,
	})
}

// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.ForgotPasswordRequest true "Account email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "If the email is registered, a reset link was sent"})
}

// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.ResetPasswordRequest true "Token and new password"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password updated"})
}

// @Summary      List members
// @Description  Admin-only: all member accounts.
// @Tags         admin,members
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} user.User
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /api/admin/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	users, err := h.service.ListMembers(c.Request.Context())
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary      Create member
// @Description  Admin-only: creates a pre-verified account.
// @Tags         admin,members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body user.CreateMemberRequest true "Member data"
// @Success      201 {object} user.User
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/members [post]
func (h *Handler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, err := h.service.CreateMember(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// @Summary      Suspend or activate a member
// @Tags         admin,members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Param        request body map[string]bool true "{\"active\": false}"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/members/{memberID}/active [put]
func (h *Handler) SetMemberActive(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "active field is required"})
		return
	}

	if err := h.service.SetMemberActive(c.Request.Context(), memberID, *req.Active); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Member updated"})
}

// @Summary      Delete member
// @Description  Admin-only: fails with 409 while an active membership exists.
// @Tags         admin,members
// @Security     BearerAuth
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/members/{memberID} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	if err := h.service.DeleteMember(c.Request.Context(), memberID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Member deleted"})
}
