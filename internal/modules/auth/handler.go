package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/middleware"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handler handles admin session HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts session routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/auth-status", authMW, h.authStatus)
}

// login POST /login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.svc.Login(dto.Username, dto.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}

	setSessionCookie(c, token)
	response.OK(c, gin.H{"message": "Login successful"})
}

// logout POST /logout
func (h *Handler) logout(c *gin.Context) {
	clearSessionCookie(c)
	response.OK(c, gin.H{"message": "Logged out successfully"})
}

// authStatus GET /auth-status
func (h *Handler) authStatus(c *gin.Context) {
	response.OK(c, gin.H{
		"authenticated": true,
		"user":          gin.H{"username": middleware.CurrentUsername(c)},
		"message":       "Authentication valid",
	})
}

func setSessionCookie(c *gin.Context, token string) {
	maxAge := int(TokenTTL.Seconds())
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", secure, true)
}
