package comment

import (
	"errors"

	"github.com/inkpot-blog/core/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a comment id does not resolve.
var ErrNotFound = errors.New("comment not found")

// Service handles comment business logic. Comments reference posts by value
// only; there is no ownership model and no cascade from post deletion.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListByPost returns all comments for a post, newest first.
func (s *Service) ListByPost(postID string) ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// Create inserts a new comment.
func (s *Service) Create(dto *CreateCommentDTO) (*models.CommentModel, error) {
	comment := models.CommentModel{
		PostID:  dto.PostID,
		Content: dto.Content,
		Author:  dto.Author,
	}
	return &comment, s.db.Create(&comment).Error
}

// Like increments the like counter and marks the comment liked.
func (s *Service) Like(id string) (*models.CommentModel, error) {
	comment, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"likes":    gorm.Expr("likes + 1"),
		"is_liked": true,
	}
	if err := s.db.Model(comment).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.getByID(id)
}

// Flag marks a comment for moderation.
func (s *Service) Flag(id string) (*models.CommentModel, error) {
	comment, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(comment).Update("is_flagged", true).Error; err != nil {
		return nil, err
	}
	return s.getByID(id)
}

// Delete removes a comment by ID.
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.CommentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) getByID(id string) (*models.CommentModel, error) {
	var comment models.CommentModel
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}
