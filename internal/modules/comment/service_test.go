package comment

import (
	"testing"
	"time"

	"github.com/inkpot-blog/core/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

func TestCreateComment(t *testing.T) {
	svc := NewService(setupTestDB(t))

	created, err := svc.Create(&CreateCommentDTO{
		PostID:  "post-1",
		Content: "nice write-up",
		Author:  "alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Likes)
	assert.False(t, created.IsLiked)
	assert.False(t, created.IsFlagged)
}

func TestListByPostScopedAndNewestFirst(t *testing.T) {
	svc := NewService(setupTestDB(t))

	first, err := svc.Create(&CreateCommentDTO{PostID: "post-1", Content: "one", Author: "a"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(&CreateCommentDTO{PostID: "post-1", Content: "two", Author: "b"})
	require.NoError(t, err)
	_, err = svc.Create(&CreateCommentDTO{PostID: "post-2", Content: "other thread", Author: "c"})
	require.NoError(t, err)

	comments, err := svc.ListByPost("post-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)
}

func TestLikeIncrementsCounter(t *testing.T) {
	svc := NewService(setupTestDB(t))

	created, err := svc.Create(&CreateCommentDTO{PostID: "post-1", Content: "x", Author: "a"})
	require.NoError(t, err)

	liked, err := svc.Like(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.IsLiked)

	liked, err = svc.Like(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)
}

func TestLikeUnknownComment(t *testing.T) {
	svc := NewService(setupTestDB(t))

	_, err := svc.Like("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlag(t *testing.T) {
	svc := NewService(setupTestDB(t))

	created, err := svc.Create(&CreateCommentDTO{PostID: "post-1", Content: "spam?", Author: "a"})
	require.NoError(t, err)

	flagged, err := svc.Flag(created.ID)
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged)

	// Flagging twice stays flagged.
	flagged, err = svc.Flag(created.ID)
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged)
}

func TestDelete(t *testing.T) {
	svc := NewService(setupTestDB(t))

	created, err := svc.Create(&CreateCommentDTO{PostID: "post-1", Content: "bye", Author: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.ErrorIs(t, svc.Delete(created.ID), ErrNotFound)

	comments, err := svc.ListByPost("post-1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}
