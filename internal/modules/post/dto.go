package post

import (
	"time"

	"github.com/inkpot-blog/core/internal/models"
	"github.com/inkpot-blog/core/internal/pkg/markdown"
)

type CreatePostDTO struct {
	Title      string             `json:"title"      binding:"required"`
	Content    string             `json:"content"    binding:"required"`
	CoverImage string             `json:"coverImage"`
	Tags       models.StringSlice `json:"tags"`
}

type UpdatePostDTO struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Tags       *[]string `json:"tags"`
}

// postResponse is the wire shape; date and lastModified map onto the model
// timestamps for compatibility with the original API.
type postResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	ContentHTML  string             `json:"contentHtml,omitempty"`
	CoverImage   string             `json:"coverImage,omitempty"`
	Tags         models.StringSlice `json:"tags"`
	Date         time.Time          `json:"date"`
	LastModified time.Time          `json:"lastModified"`
}

func toResponse(p *models.PostModel, renderHTML bool) postResponse {
	resp := postResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		CoverImage:   p.CoverImage,
		Tags:         p.Tags,
		Date:         p.CreatedAt,
		LastModified: p.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = models.StringSlice{}
	}
	if renderHTML {
		resp.ContentHTML = markdown.Render(p.Content)
	}
	return resp
}
