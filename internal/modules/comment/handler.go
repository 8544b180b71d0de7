package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

type CreateCommentDTO struct {
	PostID  string `json:"postId"  binding:"required"`
	Content string `json:"content" binding:"required"`
	Author  string `json:"author"  binding:"required"`
}

// Handler handles comment HTTP requests. All comment routes are public,
// matching the original behavior: like, flag and delete carry no ownership
// check.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts comment routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	comments := rg.Group("/comments")

	comments.GET("/:postId", h.listByPost)
	comments.POST("", h.create)
	comments.POST("/:id/like", h.like)
	comments.POST("/:id/flag", h.flag)
	comments.DELETE("/:id", h.delete)
}

// listByPost GET /comments/:postId
func (h *Handler) listByPost(c *gin.Context) {
	comments, err := h.svc.ListByPost(c.Param("postId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, comments)
}

// create POST /comments
func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, comment)
}

// like POST /comments/:id/like
func (h *Handler) like(c *gin.Context) {
	comment, err := h.svc.Like(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, comment)
}

// flag POST /comments/:id/flag
func (h *Handler) flag(c *gin.Context) {
	comment, err := h.svc.Flag(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, comment)
}

// delete DELETE /comments/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Comment not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Comment deleted"})
}
