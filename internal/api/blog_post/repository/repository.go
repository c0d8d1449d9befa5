package blogPostRepository

import (
	"BlogAPI/internal/entity"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		BlogPosts: &blogPostsRepository{q: sqlExecutor, log: r.log},
		Commit:    commitFunc,
		Rollback:  rollbackFunc,
	}, nil
}

type BlogPosts interface {
	InsertBlogPost(ctx context.Context, post entity.BlogPost) (int64, error)
	ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error)
	GetBlogPostByID(ctx context.Context, id int64) (entity.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (entity.BlogPost, error)
	UpdateBlogPost(ctx context.Context, update entity.BlogPostUpdate) (int64, error)
	DeleteBlogPost(ctx context.Context, id int64) (int64, error)
}

type Client struct {
	BlogPosts BlogPosts

	Commit   func() error
	Rollback func() error
}

type blogPostsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
