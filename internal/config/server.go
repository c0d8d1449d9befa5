package config

import (
	"BlogAPI/database"
	blogPostHandler "BlogAPI/internal/api/blog_post/handler"
	blogPostRepository "BlogAPI/internal/api/blog_post/repository"
	blogPostService "BlogAPI/internal/api/blog_post/service"
	"BlogAPI/internal/middleware"
	"BlogAPI/pkg/media"
	"BlogAPI/pkg/redis"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	cfg        *Config
	engine     *fiber.App
	db         *sqlx.DB
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	uploader   media.IUploader
	cache      redis.IRedis
	handlers   []handler
	manifest   fiber.Handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if server.uploader == nil {
		return nil, fmt.Errorf("media uploader is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.cache == nil {
		server.cache = redis.NopCache{}
	}

	return server, nil
}

func WithConfig(cfg *Config) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase(cfg database.Config) ServerOption {
	return func(s *Server) error {
		db, err := database.New(cfg)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// WithDB uses an already opened pool.
func WithDB(db *sqlx.DB) ServerOption {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

func WithMediaUploader(cfg media.Config) ServerOption {
	return func(s *Server) error {
		uploader, err := media.New(cfg)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize media uploader: %v", err)
			}
			return fmt.Errorf("failed to create media uploader: %w", err)
		}
		s.uploader = uploader
		return nil
	}
}

func WithUploader(uploader media.IUploader) ServerOption {
	return func(s *Server) error {
		s.uploader = uploader
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.cache = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.cfg == nil {
			return fmt.Errorf("config must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			RateLimitRPS:   s.cfg.RateLimitRPS,
			RateLimitBurst: s.cfg.RateLimitBurst,
			JWTSecret:      s.cfg.Auth.JWTSecret,
			AllowedOrigins: s.cfg.CORSOrigins,
		})
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Blog Post Domain
	blogPostRepo := blogPostRepository.New(s.db, s.log)
	blogPostServices := blogPostService.NewBlogPostsService(s.log, blogPostRepo, s.uploader,
		blogPostService.WithCache(s.cache, s.cfg.Cache.TTL),
	)
	blogPostHandlers := blogPostHandler.New(s.log, s.validator, s.middleware, blogPostServices, blogPostHandler.Config{
		BasePath:       s.cfg.App.APIPath,
		AuthEnabled:    s.cfg.Auth.Enabled,
		UploadMaxBytes: s.cfg.Upload.MaxBytes,
		UploadTmpDir:   s.cfg.Upload.TmpDir,
		RequestTimeout: s.cfg.RequestTimeout,
	})

	s.manifest = blogPostHandlers.Manifest
	s.handlers = append(s.handlers, blogPostHandlers)
}

// Mount wires middleware and routes. Run calls it; tests call it directly.
func (s *Server) Mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware)
	s.engine.Use(s.middleware.NewCORSMiddleware())

	if s.manifest != nil {
		s.engine.Get("/", s.manifest)
	}
	s.setupHealthCheck()

	router := s.engine.Group(s.cfg.App.APIPath, s.middleware.NewRateLimiter)
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.Mount()

	if err := s.engine.Listen(fmt.Sprintf(":%s", s.cfg.App.Port)); err != nil {
		return err
	}

	return nil
}

// Shutdown stops accepting requests, then releases the cache and the pool.
func (s *Server) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.engine.ShutdownWithTimeout(timeout); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := s.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/healthz", func(ctx *fiber.Ctx) error {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(c); err != nil {
			s.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Error("Health check failed")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Database unavailable",
			})
		}

		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
