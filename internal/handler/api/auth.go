package api

import (
	"net/http"

	reqdto "parkshare/internal/handler/dto/request"
	resdto "parkshare/internal/handler/dto/response"
	"parkshare/internal/handler/httperr"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/cookie"
	"parkshare/internal/pkg/jwt"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
	userQueries  queries.UserQueries
	jwtService   *jwt.Service
	cfg          config.Config
}

func NewAuthHandler(authCommands commands.AuthCommands, userQueries queries.UserQueries, jwtService *jwt.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
		userQueries:  userQueries,
		jwtService:   jwtService,
		cfg:          cfg,
	}
}

// @Summary User login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), result.UserID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	expiry := h.jwtService.TokenDuration()
	cookie.SetAccessToken(c, h.cfg.Cookie, result.AccessToken, expiry)

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiry.Seconds()),
		User:        resdto.FromAuthorizedUserView(user),
	})
}

// @Summary Register
// @Description Creates a renter (default) or owner account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}

	userID, err := h.authCommands.Register(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAuthorizedUserView(user))
}

// @Summary User logout
// @Description Clears the access token cookie; bearer tokens simply expire
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessToken(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoActor, "User not authenticated", nil)
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAuthorizedUserView(user))
}
