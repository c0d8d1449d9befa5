package blogPostService

import (
	"BlogAPI/internal/api/blog_post"
	blogPostRepository "BlogAPI/internal/api/blog_post/repository"
	"BlogAPI/internal/entity"
	"BlogAPI/pkg/media"
	"BlogAPI/pkg/redis"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IBlogPostsService interface {
	CreateBlogPost(ctx context.Context, req blogPosts.BlogPostRequest, image *blogPosts.ImageUpload) (int64, error)
	ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error)
	GetBlogPostByID(ctx context.Context, id int64) (entity.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (entity.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int64, req blogPosts.BlogPostRequest, image *blogPosts.ImageUpload) error
	DeleteBlogPost(ctx context.Context, id int64) error
}

type blogPostsService struct {
	log      *logrus.Logger
	repo     blogPostRepository.Repository
	uploader media.IUploader
	cache    redis.IRedis
	cacheTTL time.Duration
	now      func() time.Time
}

type Option func(*blogPostsService)

func WithCache(cache redis.IRedis, ttl time.Duration) Option {
	return func(s *blogPostsService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithClock overrides the time source used for upload_date.
func WithClock(now func() time.Time) Option {
	return func(s *blogPostsService) {
		s.now = now
	}
}

func NewBlogPostsService(
	log *logrus.Logger,
	repo blogPostRepository.Repository,
	uploader media.IUploader,
	opts ...Option,
) IBlogPostsService {
	s := &blogPostsService{
		log:      log,
		repo:     repo,
		uploader: uploader,
		cache:    redis.NopCache{},
		cacheTTL: 10 * time.Minute,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		s.cache = redis.NopCache{}
	}

	return s
}
