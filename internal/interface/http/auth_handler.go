package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/response"
	"github.com/alnnovate/academy/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
	Audit   *Auditor
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.Manager, audit *Auditor, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Audit: audit, Logger: logger}
}

type signupRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role" binding:"omitempty,signuprole"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// Signup POST /api/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	acc, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            entity.Role(req.Role),
		AcceptTerms:     req.AcceptTerms,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Audit.Record(c, acc.ID, acc.Email, entity.AuditSignup, map[string]any{"role": string(acc.Role)})
	response.Success(c, http.StatusCreated, gin.H{"id": acc.ID, "email": acc.Email}, "User created successfully", nil)
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// Verify POST /api/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	verified, err := h.Svc.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if !verified {
		response.Success[any](c, http.StatusOK, nil, "User already verified", nil)
		return
	}
	h.Audit.Record(c, "", application.NormalizeEmail(req.Email), entity.AuditVerify, nil)
	response.Success[any](c, http.StatusOK, nil, "User verified successfully", nil)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendVerification POST /api/resendverification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Verification email resent successfully!", nil)
}

type forgotQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// ForgotPassword GET /api/forgotpassword?email=
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var q forgotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	expires, err := h.Svc.RequestReset(c.Request.Context(), q.Email)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Audit.Record(c, "", application.NormalizeEmail(q.Email), entity.AuditResetRequested, nil)
	response.Success(c, http.StatusOK, gin.H{"expiresAt": expires}, "OTP sent to your email.", nil)
}

type otpRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,otp"`
}

// VerifyForgotOTP POST /api/verifyforgototp
func (h *AuthHandler) VerifyForgotOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	if err := h.Svc.CheckOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "OTP verified successfully.", nil)
}

type changePasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	OTP             string `json:"otp" binding:"required,otp"`
	Password        string `json:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ChangePasswordWithOTP POST /api/changepasswordwithotp
func (h *AuthHandler) ChangePasswordWithOTP(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), application.ChangePasswordInput{
		Email:           req.Email,
		OTP:             req.OTP,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Audit.Record(c, "", application.NormalizeEmail(req.Email), entity.AuditPasswordChanged, nil)
	response.Success[any](c, http.StatusOK, nil, "Password changed successfully.", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type loginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	acc, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		if application.KindOf(err) == application.KindInvalidCredentials {
			h.Audit.Record(c, "", application.NormalizeEmail(req.Email), entity.AuditLoginFailed, nil)
		}
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.TTL)
	h.Audit.Record(c, acc.ID, acc.Email, entity.AuditLogin, map[string]any{"remember": req.Remember})
	response.Success(c, http.StatusOK, gin.H{
		"user":      loginUser{ID: acc.ID, Email: acc.Email, Name: acc.FullName},
		"expiresAt": sess.ExpiresAt,
	}, "Login successful", nil)
}

// Logout GET /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}
