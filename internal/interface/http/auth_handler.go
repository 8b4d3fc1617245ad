package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/internal/application"
	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/pkg/response"
	"github.com/oksasatya/go-user-query-service/pkg/sanitize"
)

// AuthService is the part of the user service the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*application.LoginResult, error)
	Verify(ctx context.Context, email string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type AuthHandler struct {
	Svc    AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,personname"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type checkEmailQuery struct {
	Email string `form:"email" binding:"required,email"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Name = sanitize.Name(req.Name)
	req.Email = sanitize.Email(req.Email)
	req.Password = sanitize.Password(req.Password)
	req.Role = sanitize.String(req.Role)
	if err := validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": toUserDTO(u)}, "User created successfully", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Email = sanitize.Email(req.Email)
	req.Password = sanitize.Password(req.Password)
	if err := validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK,
		gin.H{"token": res.Token, "user": toUserDTO(res.User)},
		"Login successful",
		gin.H{"expires_at": res.ExpiresAt},
	)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := decodeJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	req.Email = sanitize.Email(req.Email)
	if err := validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	u, err := h.Svc.Verify(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserDTO(u)}, "User verified successfully", nil)
}

// CheckEmail is public; it answers only whether the address is taken.
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	q := checkEmailQuery{Email: sanitize.Email(c.Query("email"))}
	if err := validate(&q); err != nil {
		_ = c.Error(err)
		return
	}
	exists, err := h.Svc.EmailExists(c.Request.Context(), q.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exists": exists}, "", nil)
}
