package subscriber

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

type SubscribeDTO struct {
	Email string `json:"email" binding:"required"`
}

type UnsubscribeDTO struct {
	Email string `json:"email" binding:"required"`
}

// Handler handles subscriber HTTP requests. Subscribe, confirm and
// unsubscribe are public; the listing and count views require auth since
// they expose subscriber emails.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts subscriber routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	subs := rg.Group("/subscribers")

	subs.POST("", h.subscribe)
	subs.GET("/confirm/:token", h.confirm)
	subs.POST("/unsubscribe", h.unsubscribe)

	subs.GET("", authMW, h.list)
	subs.GET("/count", authMW, h.count)
}

// subscribe POST /subscribers
func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Subscribe(dto.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			response.BadRequest(c, "invalid email address")
		case errors.Is(err, ErrDuplicateSubscription):
			response.BadRequest(c, "This email is already subscribed to our newsletter.")
		default:
			response.InternalError(c, err)
		}
		return
	}

	if result.Reactivated {
		response.OK(c, gin.H{"message": "Subscription reactivated successfully", "status": "reactivated"})
		return
	}
	response.Created(c, gin.H{"message": "Successfully subscribed to the newsletter!", "status": "success"})
}

// confirm GET /subscribers/confirm/:token
func (h *Handler) confirm(c *gin.Context) {
	sub, err := h.svc.Confirm(c.Param("token"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Invalid or expired confirmation link")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Subscription confirmed successfully!", "email": sub.Email})
}

// unsubscribe POST /subscribers/unsubscribe
func (h *Handler) unsubscribe(c *gin.Context) {
	var dto UnsubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.Unsubscribe(dto.Email); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Subscriber not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Unsubscribed successfully"})
}

// list GET /subscribers
func (h *Handler) list(c *gin.Context) {
	subs, err := h.svc.ListActive()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]gin.H, len(subs))
	for i, s := range subs {
		items[i] = gin.H{"email": s.Email, "active": s.Active, "subscriptionDate": s.SubscriptionDate}
	}
	response.OK(c, gin.H{"count": len(items), "subscribers": items})
}

// count GET /subscribers/count
func (h *Handler) count(c *gin.Context) {
	count, err := h.svc.CountActive()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}
