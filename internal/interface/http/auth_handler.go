package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/internal/application"
	"github.com/oksasatya/jsonplaceholder-api/internal/interface/middleware"
	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/response"
)

type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) (*application.TokenResponse, error)
	Login(ctx context.Context, in application.LoginInput) (*application.TokenResponse, error)
}

type AuthHandler struct {
	Svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	tok, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, tok)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, tok)
}

type profileResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID *int64 `json:"userId"`
}

// Profile returns the credential attached by the authorization gate.
func (h *AuthHandler) Profile(c *gin.Context) {
	cred, ok := middleware.CurrentCredential(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized("Unauthorized"))
		return
	}
	response.Success(c, http.StatusOK, profileResponse{
		ID:     cred.ID,
		Email:  cred.Email,
		Name:   cred.Name,
		UserID: cred.UserID,
	})
}

func (h *AuthHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Auth API is working!"})
}
