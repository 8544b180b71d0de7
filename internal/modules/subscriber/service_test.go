package subscriber

import (
	"errors"
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

// fakeMailer captures sent messages and can simulate transport failures.
type fakeMailer struct {
	sent    []mail.Message
	failAll error
}

func (m *fakeMailer) Send(msg mail.Message) error {
	if m.failAll != nil {
		return m.failAll
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

func TestSubscribeCreatesActiveSubscriber(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{}
	svc := NewService(db, mailer, nil)

	result, err := svc.Subscribe("Reader@Example.com")
	require.NoError(t, err)
	assert.False(t, result.Reactivated)
	assert.Equal(t, "reader@example.com", result.Subscriber.Email)
	assert.True(t, result.Subscriber.Active)
	require.NotNil(t, result.Subscriber.ConfirmationToken)

	var count int64
	db.Model(&models.SubscriberModel{}).Where("email = ?", "reader@example.com").Count(&count)
	assert.Equal(t, int64(1), count)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"reader@example.com"}, mailer.sent[0].To)
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	svc := NewService(setupTestDB(t), &fakeMailer{}, nil)

	for _, email := range []string{"", "not-an-email", "a b@example.com", "missing@tld"} {
		_, err := svc.Subscribe(email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
}

func TestSubscribeDuplicateActiveRejected(t *testing.T) {
	svc := NewService(setupTestDB(t), &fakeMailer{}, nil)

	_, err := svc.Subscribe("reader@example.com")
	require.NoError(t, err)

	_, err = svc.Subscribe("reader@example.com")
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
}

func TestSubscribeReactivatesInactiveRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeMailer{}, nil)

	_, err := svc.Subscribe("reader@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe("reader@example.com"))

	result, err := svc.Subscribe("reader@example.com")
	require.NoError(t, err)
	assert.True(t, result.Reactivated)
	assert.True(t, result.Subscriber.Active)

	// Reactivation must not create a second row for the same email.
	var count int64
	db.Model(&models.SubscriberModel{}).Where("email = ?", "reader@example.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubscribeSurvivesWelcomeEmailFailure(t *testing.T) {
	svc := NewService(setupTestDB(t), &fakeMailer{failAll: errors.New("smtp down")}, nil)

	result, err := svc.Subscribe("reader@example.com")
	require.NoError(t, err)
	assert.True(t, result.Subscriber.Active)
}

func TestConfirmUnknownToken(t *testing.T) {
	svc := NewService(setupTestDB(t), &fakeMailer{}, nil)

	_, err := svc.Confirm("no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmClearsTokenAndActivates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeMailer{}, nil)

	result, err := svc.Subscribe("reader@example.com")
	require.NoError(t, err)
	token := *result.Subscriber.ConfirmationToken

	sub, err := svc.Confirm(token)
	require.NoError(t, err)
	assert.True(t, sub.Active)
	assert.Nil(t, sub.ConfirmationToken)

	var stored models.SubscriberModel
	require.NoError(t, db.First(&stored, "email = ?", "reader@example.com").Error)
	assert.Nil(t, stored.ConfirmationToken)

	_, err = svc.Confirm(token)
	assert.ErrorIs(t, err, ErrNotFound, "token must be one-time")
}

func TestUnsubscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeMailer{}, nil)

	assert.ErrorIs(t, svc.Unsubscribe("ghost@example.com"), ErrNotFound)

	_, err := svc.Subscribe("reader@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe("reader@example.com"))
	// Idempotent: a second unsubscribe is a silent no-op.
	require.NoError(t, svc.Unsubscribe("reader@example.com"))

	var stored models.SubscriberModel
	require.NoError(t, db.First(&stored, "email = ?", "reader@example.com").Error)
	assert.False(t, stored.Active)
}

func TestCountAndListActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &fakeMailer{}, nil)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Subscribe(email)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, svc.Unsubscribe("b@example.com"))

	count, err := svc.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	subs, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	// Newest subscription first.
	assert.Equal(t, "c@example.com", subs[0].Email)
	assert.Equal(t, "a@example.com", subs[1].Email)
}
