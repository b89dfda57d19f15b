package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

// Register creates a new user and returns it along with a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuthResponse(*user, token))
}

// Login authenticates a user and returns it along with a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(*user, token))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		// Unknown user and wrong password are indistinguishable on purpose
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
