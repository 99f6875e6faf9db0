package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/app/services"
	"github.com/ucsb-cs156/crudapi/internal/middleware"
)

// AuthController handles login and the current-user endpoint
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns an access token carrying the user's roles
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindError(err))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// CurrentUser returns the caller identified by the bearer token
// @Summary Current user
// @Description Returns the email and roles of the authenticated caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CurrentUserResponse
// @Failure 403 {object} dto.ErrorResponse "Not logged in"
// @Router /currentUser [get]
func (c *AuthController) CurrentUser(ctx *gin.Context) {
	resp := dto.CurrentUserResponse{
		ID:       ctx.GetInt64(middleware.ContextUserID),
		Email:    ctx.GetString(middleware.ContextEmail),
		Roles:    middleware.RolesFromContext(ctx),
		LoggedIn: true,
	}
	ctx.JSON(http.StatusOK, resp)
}
