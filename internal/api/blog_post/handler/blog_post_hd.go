package blogPostHandler

import (
	"BlogAPI/internal/api/blog_post"
	contextPkg "BlogAPI/pkg/context"
	"BlogAPI/pkg/handlerUtil"
	jwtPkg "BlogAPI/pkg/jwt"
	"BlogAPI/pkg/log"
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (h *BlogPostsHandler) CreateBlogPost(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"editor":     h.editor(ctx),
	}).Debug("Processing insert blog post request")

	req, err := parseBlogPostRequest(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	image, cleanup, err := h.receiveImage(ctx, requestID)
	defer cleanup()
	if err != nil {
		return h.fail(ctx, c, requestID, err, "insert_blog_post")
	}

	if _, err := h.blogPostsService.CreateBlogPost(c, req, image); err != nil {
		return h.fail(ctx, c, requestID, err, "insert_blog_post")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, blogPosts.MessageResponse{
		Message: "Blog post inserted successfully",
	})
}

func (h *BlogPostsHandler) ListBlogPosts(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	posts, err := h.blogPostsService.ListBlogPosts(c)
	if err != nil {
		return h.fail(ctx, c, requestID, err, "fetch_blog_posts")
	}

	resp := make([]blogPosts.BlogPostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, blogPosts.NewBlogPostResponse(post))
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *BlogPostsHandler) GetBlogPostByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id, err := parsePostID(ctx)
	if err != nil {
		return h.fail(ctx, c, requestID, err, "fetch_blog_post")
	}

	post, err := h.blogPostsService.GetBlogPostByID(c, id)
	if err != nil {
		return h.fail(ctx, c, requestID, err, "fetch_blog_post")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, blogPosts.NewBlogPostResponse(post))
}

func (h *BlogPostsHandler) GetBlogPostBySlug(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	post, err := h.blogPostsService.GetBlogPostBySlug(c, ctx.Params("slug"))
	if err != nil {
		return h.fail(ctx, c, requestID, err, "fetch_blog_post_by_slug")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, blogPosts.NewBlogPostResponse(post))
}

func (h *BlogPostsHandler) UpdateBlogPost(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"editor":     h.editor(ctx),
	}).Debug("Processing update blog post request")

	id, err := parsePostID(ctx)
	if err != nil {
		return h.fail(ctx, c, requestID, err, "update_blog_post")
	}

	req, err := parseBlogPostRequest(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	image, cleanup, err := h.receiveImage(ctx, requestID)
	defer cleanup()
	if err != nil {
		return h.fail(ctx, c, requestID, err, "update_blog_post")
	}

	if err := h.blogPostsService.UpdateBlogPost(c, id, req, image); err != nil {
		return h.fail(ctx, c, requestID, err, "update_blog_post")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, blogPosts.MessageResponse{
		Message: "Blog post updated successfully",
	})
}

func (h *BlogPostsHandler) DeleteBlogPost(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.cfg.RequestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id, err := parsePostID(ctx)
	if err != nil {
		return h.fail(ctx, c, requestID, err, "delete_blog_post")
	}

	if err := h.blogPostsService.DeleteBlogPost(c, id); err != nil {
		return h.fail(ctx, c, requestID, err, "delete_blog_post")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, blogPosts.MessageResponse{
		Message: "Blog post deleted successfully",
	})
}

// parseBlogPostRequest accepts multipart, urlencoded and JSON bodies. Any
// other body is refused rather than read as a post with every field empty.
func parseBlogPostRequest(ctx *fiber.Ctx) (blogPosts.BlogPostRequest, error) {
	var req blogPosts.BlogPostRequest
	if err := ctx.BodyParser(&req); err != nil {
		if errors.Is(err, fiber.ErrUnprocessableEntity) {
			return req, errUnsupportedBody
		}
		return req, err
	}
	return req, nil
}

var errUnsupportedBody = errors.New("body must be multipart/form-data, application/x-www-form-urlencoded or application/json")

// fail answers 408 when the request deadline ran out under the service.
func (h *BlogPostsHandler) fail(ctx *fiber.Ctx, c context.Context, requestID string, err error, operation string) error {
	errHandler := handlerUtil.New(h.log)

	if errors.Is(c.Err(), context.DeadlineExceeded) {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"operation":  operation,
			"error":      err.Error(),
		}).Warn("Request deadline exceeded")
		return errHandler.HandleRequestTimeout(ctx)
	}

	return errHandler.Handle(ctx, requestID, err, ctx.Path(), operation)
}

// A non-numeric id can never match a row.
func parsePostID(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, blogPosts.ErrBlogPostNotFound
	}
	return id, nil
}

func (h *BlogPostsHandler) editor(ctx *fiber.Ctx) interface{} {
	if !h.cfg.AuthEnabled {
		return nil
	}
	claims, err := jwtPkg.GetClaims(ctx)
	if err != nil {
		return nil
	}
	return claims["sub"]
}
