package post

import (
	"errors"

	"github.com/inkpot-blog/core/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a post id does not resolve.
var ErrNotFound = errors.New("post not found")

// Service handles post business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns every post, newest first. The collection is small enough that
// the API serves it unpaginated.
func (s *Service) List() ([]models.PostModel, error) {
	var posts []models.PostModel
	err := s.db.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// GetByID fetches a single post by ID.
func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post.
func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	post := models.PostModel{
		Title:      dto.Title,
		Content:    dto.Content,
		CoverImage: dto.CoverImage,
		Tags:       dto.Tags,
	}
	if post.Tags == nil {
		post.Tags = models.StringSlice{}
	}
	return &post, s.db.Create(&post).Error
}

// Update merges the supplied fields into an existing post. GORM bumps
// UpdatedAt (the API's lastModified) on every save.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = *dto.CoverImage
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringSlice(*dto.Tags)
	}
	if len(updates) == 0 {
		return post, nil
	}

	if err := s.db.Model(post).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a post by ID.
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.PostModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
