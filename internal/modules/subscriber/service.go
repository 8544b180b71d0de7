package subscriber

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/inkpot-blog/core/internal/models"
	"github.com/inkpot-blog/core/internal/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrDuplicateSubscription = errors.New("email already subscribed")
	ErrNotFound              = errors.New("subscriber not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubscribeResult reports whether Subscribe created a new record or
// reactivated an inactive one.
type SubscribeResult struct {
	Subscriber  *models.SubscriberModel
	Reactivated bool
}

// Service manages the subscription lifecycle. The mail transport is injected
// so tests can substitute it; every email here is best-effort and never fails
// the primary state transition.
type Service struct {
	db     *gorm.DB
	mailer mail.Mailer
	logger *zap.Logger
}

func NewService(db *gorm.DB, mailer mail.Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, mailer: mailer, logger: logger}
}

// Subscribe creates a subscriber for a new email, reactivates an inactive
// record, or rejects an already-active one. The unique email index keeps at
// most one row per address regardless of active state.
func (s *Service) Subscribe(email string) (*SubscribeResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.getByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Active {
			return nil, ErrDuplicateSubscription
		}
		if err := s.db.Model(existing).Update("active", true).Error; err != nil {
			return nil, err
		}
		existing.Active = true
		return &SubscribeResult{Subscriber: existing, Reactivated: true}, nil
	}

	token, err := newConfirmationToken()
	if err != nil {
		return nil, err
	}
	sub := models.SubscriberModel{
		Email:             email,
		Active:            true,
		SubscriptionDate:  time.Now(),
		ConfirmationToken: &token,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	s.sendBestEffort(email, mail.WelcomeMessage(email), "welcome")
	return &SubscribeResult{Subscriber: &sub}, nil
}

// Confirm redeems a confirmation token: the subscriber becomes active and
// the one-time token is cleared.
func (s *Service) Confirm(token string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.Where("confirmation_token = ?", token).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"active":             true,
		"confirmation_token": nil,
	}
	if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	sub.Active = true
	sub.ConfirmationToken = nil

	s.sendBestEffort(sub.Email, mail.ConfirmedMessage(sub.Email), "confirmation")
	return &sub, nil
}

// Unsubscribe deactivates a subscriber. Unsubscribing an already-inactive
// subscriber is a silent no-op; the record is never deleted.
func (s *Service) Unsubscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	sub, err := s.getByEmail(email)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNotFound
	}
	if !sub.Active {
		return nil
	}
	return s.db.Model(sub).Update("active", false).Error
}

// CountActive returns the number of active subscribers.
func (s *Service) CountActive() (int64, error) {
	var count int64
	err := s.db.Model(&models.SubscriberModel{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}

// ListActive returns active subscribers, newest subscription first.
func (s *Service) ListActive() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := s.db.Where("active = ?", true).
		Order("subscription_date DESC").
		Find(&subs).Error
	return subs, err
}

func (s *Service) getByEmail(email string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.Where("email = ?", email).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Service) sendBestEffort(to string, msg mail.Message, kind string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Warn("failed to send "+kind+" email",
			zap.String("to", to),
			zap.Error(err),
		)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func newConfirmationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
