package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Derakings/Goalsaver/internal/domain"
	"github.com/Derakings/Goalsaver/internal/service"
)

// AuthHandler holds dependencies for the auth endpoints.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	jwtServ  *service.JWTService
}

// NewAuthHandler creates an AuthHandler with its dependencies.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		jwtServ:  jwtServ,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.authServ.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not register")
		return
	}

	respondData(c, http.StatusCreated, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var verErr *service.VerificationRequiredError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, err.Error())
		case errors.As(err, &verErr):
			respondErrorData(c, http.StatusForbidden, verErr.Error(), verErr)
		default:
			h.logger.Error("login failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not login")
		}
		return
	}

	token, err := h.jwtServ.GenerateToken(user)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": user.Public(), "token": token})
}

// GetProfile handles GET /api/auth/me.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	profile, err := h.authServ.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not load profile")
		return
	}

	respondData(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := h.authServ.UpdateProfile(c.Request.Context(), claims.UserID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("update profile failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not update profile")
		return
	}

	respondData(c, http.StatusOK, profile)
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logout is
// client-side token removal.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify otp request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.authServ.VerifyOTP(c.Request.Context(), req.UserID, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredCode) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("verify otp failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not verify otp")
		return
	}

	respondMessage(c, http.StatusOK, "Email verified successfully")
}

// ResendOTP handles POST /api/auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid resend otp request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.authServ.ResendOTP(c.Request.Context(), req.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyVerified):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRateLimited):
			respondError(c, http.StatusTooManyRequests, err.Error())
		default:
			h.logger.Error("resend otp failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not resend otp")
		}
		return
	}

	respondMessage(c, http.StatusOK, "OTP sent successfully")
}

// ForgotPassword handles POST /api/auth/forgot-password. Responds 200
// whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid forgot password request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.authServ.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			respondError(c, http.StatusTooManyRequests, err.Error())
			return
		}
		h.logger.Error("forgot password failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not process request")
		return
	}

	respondMessage(c, http.StatusOK, "If the account exists, a reset code has been sent")
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId" binding:"required"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset password request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.authServ.ResetPassword(c.Request.Context(), req.UserID, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredCode):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("reset password failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not reset password")
		}
		return
	}

	respondMessage(c, http.StatusOK, "Password reset successfully")
}

// CompleteTutorial handles POST /api/auth/complete-tutorial.
func (h *AuthHandler) CompleteTutorial(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := h.authServ.CompleteTutorial(c.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("complete tutorial failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not complete tutorial")
		return
	}

	respondMessage(c, http.StatusOK, "Tutorial completed")
}
