package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/services"
	"go.uber.org/zap"
)

type AuthController struct {
	Auth *services.AuthService
	Log  *zap.Logger
}

func NewAuthController(auth *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{Auth: auth, Log: orNop(log)}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, tokens)
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := ac.Auth.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, tokens)
}

// Logout succeeds even when the token was already gone.
func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := ac.Auth.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Logged out successfully"})
}
