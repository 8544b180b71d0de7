package newsletter

import (
	"errors"
	"strings"
	"time"

	"github.com/inkpot-blog/core/internal/models"
	"github.com/inkpot-blog/core/internal/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("newsletter not found")
	ErrAlreadySent    = errors.New("newsletter has already been sent")
	ErrSendInProgress = errors.New("newsletter send already in progress")
	ErrNoRecipients   = errors.New("no active subscribers found")
)

// DeliveryError reports a dispatch where not a single recipient could be
// reached. Partial failures are not an error; they ride along on SendResult.
type DeliveryError struct {
	Errors []string
}

func (e *DeliveryError) Error() string {
	return "failed to send newsletter: " + strings.Join(e.Errors, ", ")
}

// SendResult is the outcome of a successful dispatch. Errors holds the
// per-recipient failures that did not sink the run.
type SendResult struct {
	SentCount int
	Errors    []string
}

// Service owns newsletter CRUD and the dispatch orchestrator. The mail
// transport is an injected capability so tests can substitute it.
type Service struct {
	db        *gorm.DB
	mailer    mail.Mailer
	logger    *zap.Logger
	sendDelay time.Duration
}

func NewService(db *gorm.DB, mailer mail.Mailer, logger *zap.Logger, sendDelay time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, mailer: mailer, logger: logger, sendDelay: sendDelay}
}

// List returns all newsletters, most recently sent first.
func (s *Service) List() ([]models.NewsletterModel, error) {
	var newsletters []models.NewsletterModel
	err := s.db.Order("sent_date DESC").Find(&newsletters).Error
	return newsletters, err
}

// GetByID fetches a single newsletter by ID.
func (s *Service) GetByID(id string) (*models.NewsletterModel, error) {
	var nl models.NewsletterModel
	if err := s.db.First(&nl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &nl, nil
}

// Create inserts a new draft.
func (s *Service) Create(subject, content string) (*models.NewsletterModel, error) {
	nl := models.NewsletterModel{
		Subject:  subject,
		Content:  content,
		SentDate: time.Now(),
		Status:   models.NewsletterDraft,
	}
	return &nl, s.db.Create(&nl).Error
}

// Delete removes a newsletter by ID.
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.NewsletterModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Send dispatches a newsletter to every active subscriber, sequentially,
// with a fixed inter-send delay as a throttle against provider rate limits.
// Per-recipient failures are collected and reported but only a run with zero
// deliveries fails outright. There is no delivery ledger, so re-sending a
// failed newsletter re-delivers to all active subscribers.
func (s *Service) Send(id string) (*SendResult, error) {
	// Claim the newsletter with a single conditional update so two
	// concurrent send requests cannot both pass the status check.
	claim := s.db.Model(&models.NewsletterModel{}).
		Where("id = ? AND status IN ?", id, []models.NewsletterStatus{models.NewsletterDraft, models.NewsletterFailed}).
		Update("status", models.NewsletterSending)
	if claim.Error != nil {
		return nil, claim.Error
	}
	if claim.RowsAffected == 0 {
		nl, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if nl.Status == models.NewsletterSent {
			return nil, ErrAlreadySent
		}
		return nil, ErrSendInProgress
	}

	nl, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var subs []models.SubscriberModel
	if err := s.db.Where("active = ?", true).
		Order("subscription_date DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		s.markFailed(id)
		return nil, ErrNoRecipients
	}

	s.logger.Info("newsletter dispatch started",
		zap.String("id", id),
		zap.String("subject", nl.Subject),
		zap.Int("recipients", len(subs)),
	)

	sentCount := 0
	var sendErrors []string
	for i, sub := range subs {
		if i > 0 && s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}
		if err := s.mailer.Send(mail.NewsletterMessage(sub.Email, nl.Subject, nl.Content)); err != nil {
			s.logger.Warn("newsletter send failed",
				zap.String("to", sub.Email),
				zap.Error(err),
			)
			sendErrors = append(sendErrors, sub.Email+": "+err.Error())
			continue
		}
		sentCount++
		now := time.Now()
		s.db.Model(&models.SubscriberModel{}).
			Where("id = ?", sub.ID).
			Update("last_email_sent", now)
	}

	if sentCount == 0 {
		s.markFailed(id)
		return nil, &DeliveryError{Errors: sendErrors}
	}

	if err := s.db.Model(&models.NewsletterModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          models.NewsletterSent,
			"sent_date":       time.Now(),
			"recipient_count": sentCount,
		}).Error; err != nil {
		return nil, err
	}

	s.logger.Info("newsletter dispatch finished",
		zap.String("id", id),
		zap.Int("sent", sentCount),
		zap.Int("failed", len(sendErrors)),
	)
	return &SendResult{SentCount: sentCount, Errors: sendErrors}, nil
}

func (s *Service) markFailed(id string) {
	if err := s.db.Model(&models.NewsletterModel{}).
		Where("id = ?", id).
		Update("status", models.NewsletterFailed).Error; err != nil {
		s.logger.Error("failed to mark newsletter failed", zap.String("id", id), zap.Error(err))
	}
}
