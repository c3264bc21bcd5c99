package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/auth"
	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
)

type UserAccounts interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(userID uint, email string) (string, error)
}

type AuthHandler struct {
	UserService UserAccounts
	Tokens      TokenIssuer
	Log         *logrus.Logger
}

func NewAuthHandler(users UserAccounts, tokens TokenIssuer, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{UserService: users, Tokens: tokens, Log: log}
}

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dtos.CredentialsRequest true "Email and password"
// @Success 201 {object} dtos.AuthResponse
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 409 {object} dtos.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.UserService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.WithField("userId", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, dtos.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    dtos.UserResponse{ID: user.ID, Email: user.Email},
	})
}

// Login godoc
// @Summary Log in
// @Description Returns a session token and also sets it as the HttpOnly "token" cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dtos.CredentialsRequest true "Email and password"
// @Success 200 {object} dtos.AuthResponse
// @Failure 401 {object} dtos.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.UserService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	setSessionCookie(c, token, int(auth.TokenTTL.Seconds()))
	c.JSON(http.StatusOK, dtos.AuthResponse{
		Token: token,
		User:  dtos.UserResponse{ID: user.ID, Email: user.Email},
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} dtos.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Logged out"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dtos.UserResponse
// @Failure 401 {object} dtos.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, dtos.UserResponse{ID: claims.UserID, Email: claims.Email})
}

func setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}
