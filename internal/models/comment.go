package models

// CommentModel is a comment attached to a post by value reference; there is
// no foreign key, so deleting a post leaves its comments in place.
type CommentModel struct {
	Base
	PostID    string `json:"postId"    gorm:"not null;index"`
	Content   string `json:"content"   gorm:"type:text;not null"`
	Author    string `json:"author"    gorm:"not null"`
	Likes     int    `json:"likes"     gorm:"default:0"`
	IsLiked   bool   `json:"isLiked"   gorm:"default:false"`
	IsFlagged bool   `json:"isFlagged" gorm:"default:false"`
}

func (CommentModel) TableName() string { return "comments" }
