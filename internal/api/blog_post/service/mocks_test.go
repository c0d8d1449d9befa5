package blogPostService

import (
	blogPostRepository "BlogAPI/internal/api/blog_post/repository"
	"BlogAPI/internal/entity"
	"context"
	"errors"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/mock"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

type mockBlogPosts struct {
	mock.Mock
}

func (m *mockBlogPosts) InsertBlogPost(ctx context.Context, post entity.BlogPost) (int64, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBlogPosts) ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]entity.BlogPost)
	return posts, args.Error(1)
}

func (m *mockBlogPosts) GetBlogPostByID(ctx context.Context, id int64) (entity.BlogPost, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.BlogPost), args.Error(1)
}

func (m *mockBlogPosts) GetBlogPostBySlug(ctx context.Context, slug string) (entity.BlogPost, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(entity.BlogPost), args.Error(1)
}

func (m *mockBlogPosts) UpdateBlogPost(ctx context.Context, update entity.BlogPostUpdate) (int64, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBlogPosts) DeleteBlogPost(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// fakeRepository hands out clients backed by the same mock and records
// how each client was opened and closed.
type fakeRepository struct {
	posts     *mockBlogPosts
	clientErr error
	commitErr error
	txOpened  int
	commits   int
	rollbacks int
}

func (r *fakeRepository) NewClient(tx bool) (blogPostRepository.Client, error) {
	if r.clientErr != nil {
		return blogPostRepository.Client{}, r.clientErr
	}

	if tx {
		r.txOpened++
	}

	return blogPostRepository.Client{
		BlogPosts: r.posts,
		Commit: func() error {
			r.commits++
			return r.commitErr
		},
		Rollback: func() error {
			r.rollbacks++
			return nil
		},
	}, nil
}

// memoryCache stores JSON payloads like the redis client does.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	failAll bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

var errCacheDown = errors.New("cache down")

func (c *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAll {
		return false, errCacheDown
	}
	payload, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, jsoniter.Unmarshal(payload, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAll {
		return errCacheDown
	}
	payload, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = payload
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failAll {
		return errCacheDown
	}
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}
