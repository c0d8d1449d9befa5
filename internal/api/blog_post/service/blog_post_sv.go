package blogPostService

import (
	"BlogAPI/internal/api/blog_post"
	"BlogAPI/internal/entity"
	contextPkg "BlogAPI/pkg/context"
	"BlogAPI/pkg/log"
	"BlogAPI/pkg/response"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

func (s *blogPostsService) CreateBlogPost(ctx context.Context, req blogPosts.BlogPostRequest, image *blogPosts.ImageUpload) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return 0, err
	}

	post := entity.BlogPost{
		BlogPostFields: req.Fields(),
		UploadDate:     s.now().UTC().Format(entity.UploadDateLayout),
		ImageURL:       imageURL,
	}

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.logOrphanedImage(requestID, imageURL, err)
		return 0, response.Wrap(blogPosts.ErrCreateBlogPost, err)
	}
	defer repo.Rollback()

	id, err := repo.BlogPosts.InsertBlogPost(ctx, post)
	if err != nil {
		s.logOrphanedImage(requestID, imageURL, err)
		return 0, response.Wrap(blogPosts.ErrCreateBlogPost, err)
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		s.logOrphanedImage(requestID, imageURL, err)
		return 0, response.Wrap(blogPosts.ErrCreateBlogPost, err)
	}

	s.invalidate(ctx, slugKey(post.Slug))

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"post_id":    id,
		"has_image":  imageURL != "",
	}).Info("Blog post inserted")

	return id, nil
}

func (s *blogPostsService) ListBlogPosts(ctx context.Context) ([]entity.BlogPost, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, response.Wrap(blogPosts.ErrFetchBlogPost, err)
	}

	posts, err := repo.BlogPosts.ListBlogPosts(ctx)
	if err != nil {
		return nil, response.Wrap(blogPosts.ErrFetchBlogPost, err)
	}

	return posts, nil
}

func (s *blogPostsService) GetBlogPostByID(ctx context.Context, id int64) (entity.BlogPost, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var cached entity.BlogPost
	if s.readCache(ctx, idKey(id), &cached) {
		return cached, nil
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.BlogPost{}, response.Wrap(blogPosts.ErrFetchBlogPost, err)
	}

	post, err := repo.BlogPosts.GetBlogPostByID(ctx, id)
	if err != nil {
		return entity.BlogPost{}, s.readError(requestID, "post_id", id, err)
	}

	s.writeCache(ctx, idKey(id), post)

	return post, nil
}

func (s *blogPostsService) GetBlogPostBySlug(ctx context.Context, slug string) (entity.BlogPost, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var cachedID int64
	if s.readCache(ctx, slugKey(slug), &cachedID) {
		var cached entity.BlogPost
		if s.readCache(ctx, idKey(cachedID), &cached) && cached.Slug == slug {
			return cached, nil
		}
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.BlogPost{}, response.Wrap(blogPosts.ErrFetchBlogPost, err)
	}

	post, err := repo.BlogPosts.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return entity.BlogPost{}, s.readError(requestID, "slug", slug, err)
	}

	s.writeCache(ctx, idKey(post.ID), post)
	s.writeCache(ctx, slugKey(slug), post.ID)

	return post, nil
}

func (s *blogPostsService) UpdateBlogPost(ctx context.Context, id int64, req blogPosts.BlogPostRequest, image *blogPosts.ImageUpload) error {
	requestID := contextPkg.GetRequestID(ctx)

	imageURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return err
	}

	update := entity.BlogPostUpdate{
		ID:     id,
		Fields: req.Fields(),
	}
	if imageURL != "" {
		update.ImageURL = &imageURL
	}

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.logOrphanedImage(requestID, imageURL, err)
		return response.Wrap(blogPosts.ErrUpdateBlogPost, err)
	}
	defer repo.Rollback()

	affected, err := repo.BlogPosts.UpdateBlogPost(ctx, update)
	if err != nil {
		s.logOrphanedImage(requestID, imageURL, err)
		return response.Wrap(blogPosts.ErrUpdateBlogPost, err)
	}

	if affected == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"post_id":    id,
		}).Warn("Blog post to update not found")
		s.logOrphanedImage(requestID, imageURL, blogPosts.ErrBlogPostNotFound)
		return blogPosts.ErrBlogPostNotFound
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		s.logOrphanedImage(requestID, imageURL, err)
		return response.Wrap(blogPosts.ErrUpdateBlogPost, err)
	}

	s.invalidate(ctx, idKey(id), slugKey(update.Fields.Slug))

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"post_id":       id,
		"image_changed": update.ImageURL != nil,
	}).Info("Blog post updated")

	return nil
}

func (s *blogPostsService) DeleteBlogPost(ctx context.Context, id int64) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return response.Wrap(blogPosts.ErrDeleteBlogPost, err)
	}

	affected, err := repo.BlogPosts.DeleteBlogPost(ctx, id)
	if err != nil {
		return response.Wrap(blogPosts.ErrDeleteBlogPost, err)
	}

	if affected == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"post_id":    id,
		}).Warn("Blog post to delete not found")
		return blogPosts.ErrBlogPostNotFound
	}

	s.invalidate(ctx, idKey(id))

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"post_id":    id,
	}).Info("Blog post deleted")

	return nil
}

// uploadImage returns "" when no image was attached.
func (s *blogPostsService) uploadImage(ctx context.Context, image *blogPosts.ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}

	url, err := s.uploader.Upload(ctx, image.Path)
	if err != nil {
		log.WithRequestID(ctx, s.log).WithFields(logrus.Fields{
			"filename": image.Filename,
			"size":     image.Size,
			"error":    err.Error(),
		}).Error("Failed to upload image")
		return "", response.Wrap(blogPosts.ErrFailedToUpload, err)
	}

	return url, nil
}

// logOrphanedImage records an uploaded asset that no row points to.
func (s *blogPostsService) logOrphanedImage(requestID, imageURL string, cause error) {
	if imageURL == "" {
		return
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"image_url":  imageURL,
		"error":      cause.Error(),
	}).Warn("Uploaded image is not referenced by any blog post")
}

func (s *blogPostsService) readError(requestID, key string, value interface{}, err error) error {
	if errors.Is(err, blogPosts.ErrBlogPostNotFound) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			key:          value,
		}).Warn("Blog post not found")
		return blogPosts.ErrBlogPostNotFound
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		key:          value,
		"error":      err.Error(),
	}).Error("Failed to get blog post")
	return response.Wrap(blogPosts.ErrFetchBlogPost, err)
}

func idKey(id int64) string {
	return fmt.Sprintf("blog_post:id:%d", id)
}

func slugKey(slug string) string {
	return "blog_post:slug:" + slug
}

func (s *blogPostsService) readCache(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		log.WithRequestID(ctx, s.log).WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Cache read failed")
		return false
	}
	return found
}

func (s *blogPostsService) writeCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.SetJSON(ctx, key, value, s.cacheTTL); err != nil {
		log.WithRequestID(ctx, s.log).WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Cache write failed")
	}
}

func (s *blogPostsService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.WithRequestID(ctx, s.log).WithFields(logrus.Fields{
			"keys":  keys,
			"error": err.Error(),
		}).Warn("Cache invalidation failed")
	}
}
