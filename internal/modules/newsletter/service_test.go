package newsletter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkpot-blog/core/internal/database"
	"github.com/inkpot-blog/core/internal/models"
	"github.com/inkpot-blog/core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeMailer records deliveries and fails for selected recipients.
type fakeMailer struct {
	sent    []mail.Message
	failFor map[string]error
	failAll error
}

func (m *fakeMailer) Send(msg mail.Message) error {
	if m.failAll != nil {
		return m.failAll
	}
	if len(msg.To) == 1 {
		if err, ok := m.failFor[msg.To[0]]; ok {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedSubscribers(t *testing.T, db *gorm.DB, n int) []string {
	t.Helper()
	emails := make([]string, n)
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("sub%d@example.com", i+1)
		emails[i] = email
		require.NoError(t, db.Create(&models.SubscriberModel{
			Email:            email,
			Active:           true,
			SubscriptionDate: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	return emails
}

func newTestService(db *gorm.DB, mailer mail.Mailer) *Service {
	return NewService(db, mailer, nil, 0)
}

func TestCreateDraft(t *testing.T) {
	svc := newTestService(setupTestDB(t), &fakeMailer{})

	nl, err := svc.Create("Weekly Digest", "<p>hello</p>")
	require.NoError(t, err)
	assert.Equal(t, models.NewsletterDraft, nl.Status)
	assert.Equal(t, 0, nl.RecipientCount)
	assert.NotEmpty(t, nl.ID)
}

func TestListNewestSentFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db, &fakeMailer{})

	first, err := svc.Create("first", "a")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create("second", "b")
	require.NoError(t, err)

	newsletters, err := svc.List()
	require.NoError(t, err)
	require.Len(t, newsletters, 2)
	assert.Equal(t, second.ID, newsletters[0].ID)
	assert.Equal(t, first.ID, newsletters[1].ID)
}

func TestDelete(t *testing.T) {
	svc := newTestService(setupTestDB(t), &fakeMailer{})

	nl, err := svc.Create("bye", "x")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(nl.ID))
	assert.ErrorIs(t, svc.Delete(nl.ID), ErrNotFound)

	_, err = svc.GetByID(nl.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendUnknownNewsletter(t *testing.T) {
	svc := newTestService(setupTestDB(t), &fakeMailer{})

	_, err := svc.Send("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendAlreadySentLeavesDocumentUnmodified(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{}
	svc := newTestService(db, mailer)
	seedSubscribers(t, db, 2)

	nl, err := svc.Create("Digest", "<p>hi</p>")
	require.NoError(t, err)
	require.NoError(t, db.Model(nl).Updates(map[string]interface{}{
		"status":          models.NewsletterSent,
		"recipient_count": 7,
	}).Error)

	_, err = svc.Send(nl.ID)
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.Empty(t, mailer.sent)

	var stored models.NewsletterModel
	require.NoError(t, db.First(&stored, "id = ?", nl.ID).Error)
	assert.Equal(t, models.NewsletterSent, stored.Status)
	assert.Equal(t, 7, stored.RecipientCount)
}

func TestSendInProgressRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db, &fakeMailer{})
	seedSubscribers(t, db, 1)

	nl, err := svc.Create("Digest", "x")
	require.NoError(t, err)
	require.NoError(t, db.Model(nl).Update("status", models.NewsletterSending).Error)

	_, err = svc.Send(nl.ID)
	assert.ErrorIs(t, err, ErrSendInProgress)
}

func TestSendNoRecipients(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db, &fakeMailer{})

	nl, err := svc.Create("Digest", "x")
	require.NoError(t, err)

	_, err = svc.Send(nl.ID)
	assert.ErrorIs(t, err, ErrNoRecipients)

	var stored models.NewsletterModel
	require.NoError(t, db.First(&stored, "id = ?", nl.ID).Error)
	assert.Equal(t, models.NewsletterFailed, stored.Status)
}

func TestSendDeliversToAllActiveSubscribers(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{}
	svc := newTestService(db, mailer)
	seedSubscribers(t, db, 3)
	require.NoError(t, db.Model(&models.SubscriberModel{}).
		Where("email = ?", "sub2@example.com").
		Update("active", false).Error)

	nl, err := svc.Create("Digest", "<p>hello</p>")
	require.NoError(t, err)

	result, err := svc.Send(nl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SentCount)
	assert.Empty(t, result.Errors)
	assert.Len(t, mailer.sent, 2)

	var stored models.NewsletterModel
	require.NoError(t, db.First(&stored, "id = ?", nl.ID).Error)
	assert.Equal(t, models.NewsletterSent, stored.Status)
	assert.Equal(t, 2, stored.RecipientCount)

	// Delivered subscribers get a last_email_sent stamp, inactive ones do not.
	var sub models.SubscriberModel
	require.NoError(t, db.First(&sub, "email = ?", "sub1@example.com").Error)
	assert.NotNil(t, sub.LastEmailSent)
	sub = models.SubscriberModel{}
	require.NoError(t, db.First(&sub, "email = ?", "sub2@example.com").Error)
	assert.Nil(t, sub.LastEmailSent)
}

func TestSendPartialFailure(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{failFor: map[string]error{
		"sub3@example.com": errors.New("mailbox full"),
	}}
	svc := newTestService(db, mailer)
	seedSubscribers(t, db, 5)

	nl, err := svc.Create("Digest", "<p>hello</p>")
	require.NoError(t, err)

	result, err := svc.Send(nl.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.SentCount)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "sub3@example.com: "))

	var stored models.NewsletterModel
	require.NoError(t, db.First(&stored, "id = ?", nl.ID).Error)
	assert.Equal(t, models.NewsletterSent, stored.Status)
	assert.Equal(t, 4, stored.RecipientCount)
}

func TestSendTotalFailure(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{failAll: errors.New("provider outage")}
	svc := newTestService(db, mailer)
	seedSubscribers(t, db, 3)

	nl, err := svc.Create("Digest", "x")
	require.NoError(t, err)

	_, err = svc.Send(nl.ID)
	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Len(t, deliveryErr.Errors, 3)

	var stored models.NewsletterModel
	require.NoError(t, db.First(&stored, "id = ?", nl.ID).Error)
	assert.Equal(t, models.NewsletterFailed, stored.Status)
}

func TestResendAfterFailureDeliversToEveryone(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{failAll: errors.New("provider outage")}
	svc := newTestService(db, mailer)
	seedSubscribers(t, db, 2)

	nl, err := svc.Create("Digest", "x")
	require.NoError(t, err)

	_, err = svc.Send(nl.ID)
	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)

	// No delivery ledger: the retry goes out to all active subscribers.
	mailer.failAll = nil
	result, err := svc.Send(nl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SentCount)
	assert.Len(t, mailer.sent, 2)
}

func TestNewsletterMessageContent(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{}
	svc := newTestService(db, mailer)
	seedSubscribers(t, db, 1)

	nl, err := svc.Create("Big News", "<p>content here</p>")
	require.NoError(t, err)

	_, err = svc.Send(nl.ID)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "Big News", msg.Subject)
	assert.Contains(t, msg.HTML, "<p>content here</p>")
	assert.Equal(t, "content here", msg.Text)
}
