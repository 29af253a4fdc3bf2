package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/gin-gonic/gin"
)

// loginRate limits login attempts per client IP.
const loginRate = "5-M"

// AuthHandler handles the simulated session.
type AuthHandler struct {
	sessionService portssvc.SessionSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(ss portssvc.SessionSvcFacade) *AuthHandler {
	return &AuthHandler{sessionService: ss}
}

// ErrorResponse is the error body returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the public login route.
func registerAuthRoutes(r *gin.Engine, ss portssvc.SessionSvcFacade) {
	h := NewAuthHandler(ss)

	rate, _ := limiter.NewRateFromFormatted(loginRate)
	limitMiddleware := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
	}
}

// registerSessionRoutes sets up the session routes that require a token.
func registerSessionRoutes(rg *gin.RouterGroup, ss portssvc.SessionSvcFacade) {
	h := NewAuthHandler(ss)

	auth := rg.Group("/auth")
	{
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)
	}
}

// Login godoc
// @Summary Start a session
// @Description Records the user as logged in and returns a signed token. No credentials are checked.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "User details"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 429 {object} ErrorResponse "Too many login attempts"
// @Failure 500 {object} ErrorResponse "Failed to start session"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	resp, err := h.sessionService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to start session")
		return
	}
	logger.Info("User logged in", slog.String("email", resp.User.Email))
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary End the session
// @Description Clears the persisted session. Outstanding tokens stop working.
// @Tags auth
// @Success 204 "Logged out"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to end session"
// @Security BearerAuth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.sessionService.Logout(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to end session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} domain.Session
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.Current(c.Request.Context()))
}
