package newsletter

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

type CreateNewsletterDTO struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Handler handles newsletter HTTP requests. Everything except reading a
// single newsletter (used by the public archive page) requires auth.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts newsletter routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	newsletters := rg.Group("/newsletters")

	newsletters.GET("/:id", h.get)

	authed := newsletters.Group("", authMW)
	authed.GET("", h.list)
	authed.POST("", h.create)
	authed.POST("/:id/send", h.send)
	authed.DELETE("/:id", h.delete)
}

// list GET /newsletters
func (h *Handler) list(c *gin.Context) {
	newsletters, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, newsletters)
}

// get GET /newsletters/:id
func (h *Handler) get(c *gin.Context) {
	nl, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Newsletter not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, nl)
}

// create POST /newsletters
func (h *Handler) create(c *gin.Context) {
	var dto CreateNewsletterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	nl, err := h.svc.Create(dto.Subject, dto.Content)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, nl)
}

// send POST /newsletters/:id/send
func (h *Handler) send(c *gin.Context) {
	result, err := h.svc.Send(c.Param("id"))
	if err != nil {
		var deliveryErr *DeliveryError
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Newsletter not found")
		case errors.Is(err, ErrAlreadySent):
			response.BadRequest(c, "Newsletter has already been sent")
		case errors.Is(err, ErrSendInProgress):
			response.BadRequest(c, "Newsletter send already in progress")
		case errors.Is(err, ErrNoRecipients):
			response.BadRequest(c, "No active subscribers found")
		case errors.As(err, &deliveryErr):
			response.InternalErrorWith(c, "Failed to send newsletter", gin.H{"errors": deliveryErr.Errors})
		default:
			response.InternalError(c, err)
		}
		return
	}

	body := gin.H{
		"message":        fmt.Sprintf("Newsletter sent successfully to %d subscribers", result.SentCount),
		"recipientCount": result.SentCount,
	}
	if len(result.Errors) > 0 {
		body["errors"] = result.Errors
	}
	response.OK(c, body)
}

// delete DELETE /newsletters/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Newsletter not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Newsletter deleted successfully"})
}
