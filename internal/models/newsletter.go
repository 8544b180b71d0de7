package models

import "time"

// NewsletterStatus is the dispatch state of a newsletter.
// It only advances draft → sending → {sent | failed}.
type NewsletterStatus string

const (
	NewsletterDraft   NewsletterStatus = "draft"
	NewsletterSending NewsletterStatus = "sending"
	NewsletterSent    NewsletterStatus = "sent"
	NewsletterFailed  NewsletterStatus = "failed"
)

// NewsletterModel is an email campaign sent to all active subscribers.
type NewsletterModel struct {
	Base
	Subject        string           `json:"subject"        gorm:"not null"`
	Content        string           `json:"content"        gorm:"type:longtext;not null"`
	SentDate       time.Time        `json:"sentDate"       gorm:"index"`
	RecipientCount int              `json:"recipientCount" gorm:"default:0"`
	Status         NewsletterStatus `json:"status"         gorm:"type:varchar(16);default:draft;index"`
}

func (NewsletterModel) TableName() string { return "newsletters" }
