package models

import "time"

// SubscriberModel manages newsletter subscriptions. Email is unique across
// all subscribers regardless of active state: re-subscribing reactivates the
// existing row instead of creating a duplicate, and the public API never
// hard-deletes a subscriber.
type SubscriberModel struct {
	Base
	Email             string     `json:"email"             gorm:"uniqueIndex;not null"`
	Active            bool       `json:"active"            gorm:"default:true;index"`
	SubscriptionDate  time.Time  `json:"subscriptionDate"`
	LastEmailSent     *time.Time `json:"lastEmailSent,omitempty"`
	ConfirmationToken *string    `json:"-"                 gorm:"index"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
