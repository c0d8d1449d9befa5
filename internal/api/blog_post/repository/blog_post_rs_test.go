package blogPostRepository

import (
	"context"
	"path/filepath"
	"testing"

	"BlogAPI/database"
	"BlogAPI/internal/api/blog_post"
	"BlogAPI/internal/entity"
	"BlogAPI/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) Client {
	t.Helper()

	db, err := database.New(database.Config{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "blog_test.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client, err := New(db, log.NewDiscard()).NewClient(false)
	require.NoError(t, err)
	return client
}

func samplePost(slug string) entity.BlogPost {
	return entity.BlogPost{
		BlogPostFields: entity.BlogPostFields{
			Title:           "Title " + slug,
			Slug:            slug,
			CanonicalTag:    "https://example.com/" + slug,
			MetaTitle:       "meta",
			MetaDescription: "description",
			MetaKeywords:    "go,blog",
			Content:         "<p>hi</p>",
		},
		UploadDate: "2024-05-01T10:00:00.000Z",
	}
}

func TestInsertAndGetBlogPostByID(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	post := samplePost("first")
	post.ImageURL = "https://host/x.png"

	id, err := client.BlogPosts.InsertBlogPost(ctx, post)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := client.BlogPosts.GetBlogPostByID(ctx, id)
	require.NoError(t, err)

	post.ID = id
	assert.Equal(t, post, got)
}

func TestInsertWithoutImageStoresEmpty(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	id, err := client.BlogPosts.InsertBlogPost(ctx, samplePost("no-image"))
	require.NoError(t, err)

	got, err := client.BlogPosts.GetBlogPostByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
}

func TestGetBlogPostByID_NotFound(t *testing.T) {
	client := setupTestClient(t)

	_, err := client.BlogPosts.GetBlogPostByID(context.Background(), 999)
	assert.ErrorIs(t, err, blogPosts.ErrBlogPostNotFound)
}

func TestGetBlogPostBySlug(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	_, err := client.BlogPosts.InsertBlogPost(ctx, samplePost("other"))
	require.NoError(t, err)
	id, err := client.BlogPosts.InsertBlogPost(ctx, samplePost("wanted"))
	require.NoError(t, err)

	got, err := client.BlogPosts.GetBlogPostBySlug(ctx, "wanted")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = client.BlogPosts.GetBlogPostBySlug(ctx, "missing")
	assert.ErrorIs(t, err, blogPosts.ErrBlogPostNotFound)
}

func TestGetBlogPostBySlug_DuplicateReturnsNewest(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	_, err := client.BlogPosts.InsertBlogPost(ctx, samplePost("dup"))
	require.NoError(t, err)
	newest, err := client.BlogPosts.InsertBlogPost(ctx, samplePost("dup"))
	require.NoError(t, err)

	got, err := client.BlogPosts.GetBlogPostBySlug(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, newest, got.ID)
}

func TestListBlogPosts(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	posts, err := client.BlogPosts.ListBlogPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)

	for _, slug := range []string{"a", "b", "c"} {
		_, err := client.BlogPosts.InsertBlogPost(ctx, samplePost(slug))
		require.NoError(t, err)
	}

	posts, err = client.BlogPosts.ListBlogPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestUpdateBlogPost_WithoutImageKeepsStoredImage(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	post := samplePost("keep")
	post.ImageURL = "https://host/original.png"
	id, err := client.BlogPosts.InsertBlogPost(ctx, post)
	require.NoError(t, err)

	fields := post.BlogPostFields
	fields.Title = "Changed"

	affected, err := client.BlogPosts.UpdateBlogPost(ctx, entity.BlogPostUpdate{ID: id, Fields: fields})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := client.BlogPosts.GetBlogPostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)
	assert.Equal(t, "https://host/original.png", got.ImageURL)
	assert.Equal(t, post.UploadDate, got.UploadDate)
}

func TestUpdateBlogPost_WithImageReplacesIt(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	post := samplePost("replace")
	id, err := client.BlogPosts.InsertBlogPost(ctx, post)
	require.NoError(t, err)

	newURL := "https://host/new.png"
	affected, err := client.BlogPosts.UpdateBlogPost(ctx, entity.BlogPostUpdate{
		ID:       id,
		Fields:   post.BlogPostFields,
		ImageURL: &newURL,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := client.BlogPosts.GetBlogPostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, newURL, got.ImageURL)
}

func TestUpdateBlogPost_UnchangedValuesStillMatch(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	post := samplePost("same")
	id, err := client.BlogPosts.InsertBlogPost(ctx, post)
	require.NoError(t, err)

	affected, err := client.BlogPosts.UpdateBlogPost(ctx, entity.BlogPostUpdate{ID: id, Fields: post.BlogPostFields})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
}

func TestUpdateBlogPost_MissingRowReportsZero(t *testing.T) {
	client := setupTestClient(t)

	affected, err := client.BlogPosts.UpdateBlogPost(context.Background(), entity.BlogPostUpdate{
		ID:     404,
		Fields: samplePost("ghost").BlogPostFields,
	})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDeleteBlogPost(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t)

	id, err := client.BlogPosts.InsertBlogPost(ctx, samplePost("gone"))
	require.NoError(t, err)

	affected, err := client.BlogPosts.DeleteBlogPost(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = client.BlogPosts.DeleteBlogPost(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, affected)

	_, err = client.BlogPosts.GetBlogPostByID(ctx, id)
	assert.ErrorIs(t, err, blogPosts.ErrBlogPostNotFound)
}

func TestNewClient_TransactionRollback(t *testing.T) {
	db, err := database.New(database.Config{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "blog_tx.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	defer db.Close()

	repo := New(db, log.NewDiscard())

	txClient, err := repo.NewClient(true)
	require.NoError(t, err)
	_, err = txClient.BlogPosts.InsertBlogPost(context.Background(), samplePost("rolled-back"))
	require.NoError(t, err)
	require.NoError(t, txClient.Rollback())

	client, err := repo.NewClient(false)
	require.NoError(t, err)
	posts, err := client.BlogPosts.ListBlogPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}
