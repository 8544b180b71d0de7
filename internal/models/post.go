package models

// PostModel is a blog post. Date and LastModified map onto the Base
// timestamps; GORM bumps UpdatedAt on every save.
type PostModel struct {
	Base
	Title      string      `json:"title"       gorm:"not null"`
	Content    string      `json:"content"     gorm:"type:longtext;not null"`
	CoverImage string      `json:"coverImage"`
	Tags       StringSlice `json:"tags"        gorm:"type:json;serializer:json"`
}

func (PostModel) TableName() string { return "posts" }
