package seed

import (
	"testing"

	"socialnet/internal/database"
	"socialnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestFactory_CreateUser(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, SeedOptions{SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.FirstName)
	assert.NotEmpty(t, user.Email)
	require.NotNil(t, user.Profile)
	assert.NotEmpty(t, user.Profile.Image)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "profile persists with the user")
}

func TestFactory_CreateUser_Overrides(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, SeedOptions{SkipBcrypt: true})

	user, err := f.CreateUser(func(u *models.User) {
		u.FirstName = "Pinned"
		u.Email = "pinned@example.com"
	})
	require.NoError(t, err)
	assert.Equal(t, "Pinned", user.FirstName)
	assert.Equal(t, "pinned@example.com", user.Email)
}

func TestFactory_CreatePost(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, SeedOptions{SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)

	post, err := f.CreatePost(user)
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, user.ID, post.UserID)
	assert.NotEmpty(t, post.Slug)
	assert.Equal(t, post.LikeCount-post.UnlikeCount, post.Rating)
}

func TestFactory_CreateComment(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, SeedOptions{SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	post, err := f.CreatePost(user)
	require.NoError(t, err)

	comment, err := f.CreateComment(user, post)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, post.ID, comment.PostID)
	assert.NotEmpty(t, comment.Body)
}

func TestFactory_DryRunWritesNothing(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID, "dry-run assigns synthetic IDs")

	_, err = f.CreatePost(user)
	require.NoError(t, err)

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, users)
	assert.Zero(t, posts)
}
