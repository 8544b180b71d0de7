package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

// Handler handles post HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/:id", h.get)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	posts, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p, false)
	}
	response.OK(c, items)
}

// get GET /posts/:id
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(post, true))
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(post, false))
}

// update PUT /posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(post, false))
}

// delete DELETE /posts/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Post deleted successfully"})
}
