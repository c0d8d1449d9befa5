package blogPostService

import (
	"BlogAPI/internal/api/blog_post"
	"BlogAPI/internal/entity"
	contextPkg "BlogAPI/pkg/context"
	"BlogAPI/pkg/log"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)

type serviceFixture struct {
	svc      IBlogPostsService
	repo     *fakeRepository
	posts    *mockBlogPosts
	uploader *mockUploader
	cache    *memoryCache
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	posts := &mockBlogPosts{}
	uploader := &mockUploader{}
	repo := &fakeRepository{posts: posts}
	cache := newMemoryCache()

	svc := NewBlogPostsService(log.NewDiscard(), repo, uploader,
		WithCache(cache, time.Minute),
		WithClock(func() time.Time { return fixedNow }),
	)

	t.Cleanup(func() {
		posts.AssertExpectations(t)
		uploader.AssertExpectations(t)
	})

	return &serviceFixture{svc: svc, repo: repo, posts: posts, uploader: uploader, cache: cache}
}

func sampleRequest() blogPosts.BlogPostRequest {
	return blogPosts.BlogPostRequest{
		Title:           "Hello",
		Slug:            "hello",
		CanonicalTag:    "https://example.com/hello",
		MetaTitle:       "Hello meta",
		MetaDescription: "desc",
		MetaKeywords:    "a,b",
		Content:         "<p>body</p>",
	}
}

func sampleImage() *blogPosts.ImageUpload {
	return &blogPosts.ImageUpload{
		Path:        "/tmp/blogimage-123.png",
		Filename:    "cover.png",
		ContentType: "image/png",
		Size:        42,
	}
}

func TestCreateBlogPost_WithoutImage(t *testing.T) {
	f := newFixture(t)

	expected := entity.BlogPost{
		BlogPostFields: sampleRequest().Fields(),
		UploadDate:     "2024-05-01T10:00:00.123Z",
	}
	f.posts.On("InsertBlogPost", mock.Anything, expected).Return(int64(7), nil).Once()

	id, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.Equal(t, 1, f.repo.commits)
	f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestCreateBlogPost_WithImageStoresReturnedURL(t *testing.T) {
	f := newFixture(t)

	f.uploader.On("Upload", mock.Anything, "/tmp/blogimage-123.png").
		Run(func(mock.Arguments) {
			assert.Zero(t, f.repo.txOpened, "upload must finish before a transaction is opened")
		}).
		Return("https://media.example/blog_images/abc.png", nil).Once()

	f.posts.On("InsertBlogPost", mock.Anything, mock.MatchedBy(func(p entity.BlogPost) bool {
		return p.ImageURL == "https://media.example/blog_images/abc.png" && p.Slug == "hello"
	})).Return(int64(8), nil).Once()

	id, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), sampleImage())
	require.NoError(t, err)
	assert.EqualValues(t, 8, id)
}

func TestCreateBlogPost_UploadFailureWritesNothing(t *testing.T) {
	f := newFixture(t)

	f.uploader.On("Upload", mock.Anything, mock.Anything).
		Return("", errors.New("host unreachable")).Once()

	_, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), sampleImage())
	assert.ErrorIs(t, err, blogPosts.ErrFailedToUpload)
	assert.Zero(t, f.repo.txOpened)
	f.posts.AssertNotCalled(t, "InsertBlogPost", mock.Anything, mock.Anything)
}

func TestCreateBlogPost_PersistenceFailure(t *testing.T) {
	f := newFixture(t)

	f.posts.On("InsertBlogPost", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection reset")).Once()

	_, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), nil)
	assert.ErrorIs(t, err, blogPosts.ErrCreateBlogPost)
	assert.Zero(t, f.repo.commits)
	assert.Equal(t, 1, f.repo.rollbacks)
}

func TestCreateBlogPost_CommitFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.commitErr = errors.New("commit failed")

	f.posts.On("InsertBlogPost", mock.Anything, mock.Anything).Return(int64(3), nil).Once()

	_, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), nil)
	assert.ErrorIs(t, err, blogPosts.ErrCreateBlogPost)
}

func TestCreateBlogPost_ClientFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.clientErr = errors.New("pool exhausted")

	_, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), nil)
	assert.ErrorIs(t, err, blogPosts.ErrCreateBlogPost)
}

func TestCreateBlogPost_InvalidatesSlugKey(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SetJSON(context.Background(), slugKey("hello"), int64(1), 0))

	f.posts.On("InsertBlogPost", mock.Anything, mock.Anything).Return(int64(2), nil).Once()

	_, err := f.svc.CreateBlogPost(context.Background(), sampleRequest(), nil)
	require.NoError(t, err)
	assert.False(t, f.cache.has(slugKey("hello")))
}

func TestUpdateBlogPost_WithoutImageLeavesImageColumn(t *testing.T) {
	f := newFixture(t)

	f.posts.On("UpdateBlogPost", mock.Anything, entity.BlogPostUpdate{
		ID:     5,
		Fields: sampleRequest().Fields(),
	}).Return(int64(1), nil).Once()

	err := f.svc.UpdateBlogPost(context.Background(), 5, sampleRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.commits)
}

func TestUpdateBlogPost_WithImageSetsImageColumn(t *testing.T) {
	f := newFixture(t)

	f.uploader.On("Upload", mock.Anything, "/tmp/blogimage-123.png").
		Return("https://media.example/new.png", nil).Once()

	f.posts.On("UpdateBlogPost", mock.Anything, mock.MatchedBy(func(u entity.BlogPostUpdate) bool {
		return u.ID == 5 && u.ImageURL != nil && *u.ImageURL == "https://media.example/new.png"
	})).Return(int64(1), nil).Once()

	err := f.svc.UpdateBlogPost(context.Background(), 5, sampleRequest(), sampleImage())
	require.NoError(t, err)
}

func TestUpdateBlogPost_UploadFailureLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)

	f.uploader.On("Upload", mock.Anything, mock.Anything).
		Return("", errors.New("quota exceeded")).Once()

	err := f.svc.UpdateBlogPost(context.Background(), 5, sampleRequest(), sampleImage())
	assert.ErrorIs(t, err, blogPosts.ErrFailedToUpload)
	assert.Zero(t, f.repo.txOpened)
	f.posts.AssertNotCalled(t, "UpdateBlogPost", mock.Anything, mock.Anything)
}

func TestUpdateBlogPost_NoRowsIsNotFound(t *testing.T) {
	f := newFixture(t)

	f.posts.On("UpdateBlogPost", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	err := f.svc.UpdateBlogPost(context.Background(), 99, sampleRequest(), nil)
	assert.ErrorIs(t, err, blogPosts.ErrBlogPostNotFound)
	assert.Zero(t, f.repo.commits)
}

func TestUpdateBlogPost_PersistenceFailure(t *testing.T) {
	f := newFixture(t)

	f.posts.On("UpdateBlogPost", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("deadlock")).Once()

	err := f.svc.UpdateBlogPost(context.Background(), 5, sampleRequest(), nil)
	assert.ErrorIs(t, err, blogPosts.ErrUpdateBlogPost)
}

func TestUpdateBlogPost_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.SetJSON(ctx, idKey(5), entity.BlogPost{ID: 5}, 0))
	require.NoError(t, f.cache.SetJSON(ctx, slugKey("hello"), int64(4), 0))

	f.posts.On("UpdateBlogPost", mock.Anything, mock.Anything).Return(int64(1), nil).Once()

	require.NoError(t, f.svc.UpdateBlogPost(ctx, 5, sampleRequest(), nil))
	assert.False(t, f.cache.has(idKey(5)))
	assert.False(t, f.cache.has(slugKey("hello")))
}

func TestGetBlogPostByID(t *testing.T) {
	f := newFixture(t)
	post := entity.BlogPost{ID: 4, BlogPostFields: sampleRequest().Fields(), UploadDate: "2024-05-01T10:00:00.123Z"}

	f.posts.On("GetBlogPostByID", mock.Anything, int64(4)).Return(post, nil).Once()

	got, err := f.svc.GetBlogPostByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, post, got)

	// served from cache the second time
	got, err = f.svc.GetBlogPostByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, post, got)
}

func TestGetBlogPostByID_NotFoundVersusFailure(t *testing.T) {
	f := newFixture(t)

	f.posts.On("GetBlogPostByID", mock.Anything, int64(1)).
		Return(entity.BlogPost{}, blogPosts.ErrBlogPostNotFound).Once()
	f.posts.On("GetBlogPostByID", mock.Anything, int64(2)).
		Return(entity.BlogPost{}, errors.New("timeout")).Once()

	_, err := f.svc.GetBlogPostByID(context.Background(), 1)
	assert.ErrorIs(t, err, blogPosts.ErrBlogPostNotFound)

	_, err = f.svc.GetBlogPostByID(context.Background(), 2)
	assert.ErrorIs(t, err, blogPosts.ErrFetchBlogPost)
	assert.NotErrorIs(t, err, blogPosts.ErrBlogPostNotFound)
}

func TestGetBlogPostByID_CacheErrorsFallBackToDatabase(t *testing.T) {
	f := newFixture(t)
	f.cache.failAll = true
	post := entity.BlogPost{ID: 4}

	f.posts.On("GetBlogPostByID", mock.Anything, int64(4)).Return(post, nil).Twice()

	for i := 0; i < 2; i++ {
		got, err := f.svc.GetBlogPostByID(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, post, got)
	}
}

func TestGetBlogPostBySlug(t *testing.T) {
	f := newFixture(t)
	post := entity.BlogPost{ID: 9, BlogPostFields: entity.BlogPostFields{Slug: "hello"}}

	f.posts.On("GetBlogPostBySlug", mock.Anything, "hello").Return(post, nil).Once()

	got, err := f.svc.GetBlogPostBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, post, got)

	got, err = f.svc.GetBlogPostBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, post, got)
}

func TestGetBlogPostBySlug_StaleMappingIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.SetJSON(ctx, slugKey("hello"), int64(3), 0))
	require.NoError(t, f.cache.SetJSON(ctx, idKey(3), entity.BlogPost{
		ID:             3,
		BlogPostFields: entity.BlogPostFields{Slug: "renamed"},
	}, 0))

	fresh := entity.BlogPost{ID: 11, BlogPostFields: entity.BlogPostFields{Slug: "hello"}}
	f.posts.On("GetBlogPostBySlug", mock.Anything, "hello").Return(fresh, nil).Once()

	got, err := f.svc.GetBlogPostBySlug(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestGetBlogPostBySlug_NotFound(t *testing.T) {
	f := newFixture(t)

	f.posts.On("GetBlogPostBySlug", mock.Anything, "nope").
		Return(entity.BlogPost{}, blogPosts.ErrBlogPostNotFound).Once()

	_, err := f.svc.GetBlogPostBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, blogPosts.ErrBlogPostNotFound)
}

func TestListBlogPosts(t *testing.T) {
	f := newFixture(t)
	posts := []entity.BlogPost{{ID: 1}, {ID: 2}}

	f.posts.On("ListBlogPosts", mock.Anything).Return(posts, nil).Once()

	got, err := f.svc.ListBlogPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestListBlogPosts_Failure(t *testing.T) {
	f := newFixture(t)

	f.posts.On("ListBlogPosts", mock.Anything).Return(nil, errors.New("boom")).Once()

	_, err := f.svc.ListBlogPosts(context.Background())
	assert.ErrorIs(t, err, blogPosts.ErrFetchBlogPost)
}

func TestDeleteBlogPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.SetJSON(ctx, idKey(6), entity.BlogPost{ID: 6}, 0))

	f.posts.On("DeleteBlogPost", mock.Anything, int64(6)).Return(int64(1), nil).Once()
	f.posts.On("DeleteBlogPost", mock.Anything, int64(7)).Return(int64(0), nil).Once()
	f.posts.On("DeleteBlogPost", mock.Anything, int64(8)).Return(int64(0), errors.New("locked")).Once()

	require.NoError(t, f.svc.DeleteBlogPost(ctx, 6))
	assert.False(t, f.cache.has(idKey(6)))

	assert.ErrorIs(t, f.svc.DeleteBlogPost(ctx, 7), blogPosts.ErrBlogPostNotFound)
	assert.ErrorIs(t, f.svc.DeleteBlogPost(ctx, 8), blogPosts.ErrDeleteBlogPost)
}

func TestCacheFailuresAreLoggedWithRequestID(t *testing.T) {
	posts := &mockBlogPosts{}
	cache := newMemoryCache()
	cache.failAll = true
	logger, hook := test.NewNullLogger()

	svc := NewBlogPostsService(logger, &fakeRepository{posts: posts}, &mockUploader{}, WithCache(cache, time.Minute))
	posts.On("GetBlogPostByID", mock.Anything, int64(4)).Return(entity.BlogPost{ID: 4}, nil).Once()

	ctx := contextPkg.WithRequestID(context.Background(), "req-cache")
	_, err := svc.GetBlogPostByID(ctx, 4)
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.Equal(t, "req-cache", entry.Data["request_id"])
	}
	posts.AssertExpectations(t)
}
