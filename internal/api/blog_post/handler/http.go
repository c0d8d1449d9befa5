package blogPostHandler

import (
	"BlogAPI/internal/api/blog_post"
	blogPostService "BlogAPI/internal/api/blog_post/service"
	"BlogAPI/internal/middleware"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const apiVersion = "v1"

type Config struct {
	BasePath       string
	AuthEnabled    bool
	UploadMaxBytes int64
	UploadTmpDir   string
	RequestTimeout time.Duration
}

type BlogPostsHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	blogPostsService blogPostService.IBlogPostsService
	cfg              Config
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	bs blogPostService.IBlogPostsService,
	cfg Config,
) *BlogPostsHandler {
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 10 * 1024 * 1024
	}

	return &BlogPostsHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		blogPostsService: bs,
		cfg:              cfg,
	}
}

func (h *BlogPostsHandler) Start(srv fiber.Router) {
	srv.Post("/insertblogpost", h.writeGuard(h.CreateBlogPost)...)
	srv.Get("/fetch-blog-posts", h.ListBlogPosts)
	srv.Get("/fetch-blog-post/:id", h.GetBlogPostByID)
	srv.Get("/fetch-blog-post-by-slug/:slug", h.GetBlogPostBySlug)
	srv.Put("/update-blog-post/:id", h.writeGuard(h.UpdateBlogPost)...)
	srv.Delete("/delete-blog-post/:id", h.writeGuard(h.DeleteBlogPost)...)
}

// writeGuard puts the token check in front of mutating routes when auth is on.
func (h *BlogPostsHandler) writeGuard(next fiber.Handler) []fiber.Handler {
	if h.cfg.AuthEnabled {
		return []fiber.Handler{h.middleware.NewTokenMiddleware, next}
	}
	return []fiber.Handler{next}
}

func (h *BlogPostsHandler) Routes() []blogPosts.RouteDescription {
	base := h.cfg.BasePath
	return []blogPosts.RouteDescription{
		{Path: base + "/insertblogpost", Method: fiber.MethodPost, Description: "Insert new blog post"},
		{Path: base + "/fetch-blog-posts", Method: fiber.MethodGet, Description: "Fetch all blog posts"},
		{Path: base + "/update-blog-post/:id", Method: fiber.MethodPut, Description: "Update a blog post by ID"},
		{Path: base + "/fetch-blog-post/:id", Method: fiber.MethodGet, Description: "Fetch a single blog post by ID"},
		{Path: base + "/fetch-blog-post-by-slug/:slug", Method: fiber.MethodGet, Description: "Fetch a single blog post by slug"},
		{Path: base + "/delete-blog-post/:id", Method: fiber.MethodDelete, Description: "Delete a single blog post by ID"},
	}
}

func (h *BlogPostsHandler) Manifest(ctx *fiber.Ctx) error {
	return ctx.JSON(blogPosts.ManifestResponse{
		APIVersion: apiVersion,
		Methods:    h.Routes(),
	})
}
