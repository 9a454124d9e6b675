// Package server wires repositories, services and handlers into the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"yamdb/internal/authz"
	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Settings are the process-wide API defaults, fixed at startup.
type Settings struct {
	handler.Settings
	CodeRequestLimit  int
	CodeRequestWindow time.Duration
	MetricsEnabled    bool
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Settings: handler.Settings{
			PageSize:       cfg.PageSize,
			MaxPageSize:    cfg.MaxPageSize,
			RequestTimeout: cfg.RequestTimeout,
		},
		CodeRequestLimit:  cfg.CodeRequestLimit,
		CodeRequestWindow: cfg.CodeRequestWindow,
		MetricsEnabled:    cfg.PrometheusEnabled,
	}
}

// Server holds the API dependencies.
type Server struct {
	cfg        *config.Config
	settings   Settings
	db         *gorm.DB
	redis      *redis.Client
	mailer     service.Mailer
	authorizer *authz.Enforcer
	logger     *slog.Logger
}

func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer service.Mailer, logger *slog.Logger) (*Server, error) {
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("authorization policy: %w", err)
	}
	dto.RegisterValidators()

	return &Server{
		cfg:        cfg,
		settings:   SettingsFromConfig(cfg),
		db:         db,
		redis:      rdb,
		mailer:     mailer,
		authorizer: enforcer,
		logger:     logger,
	}, nil
}

// Router builds the gin engine with every route mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	// Repositories
	userRepo := repository.NewUserRepository(s.db)
	codeRepo := repository.NewCodeRedisRepo(s.redis)
	categoryRepo := repository.NewCategoryRepo(s.db)
	genreRepo := repository.NewGenreRepo(s.db)
	titleRepo := repository.NewTitleRepository(s.db)
	reviewRepo := repository.NewReviewRepository(s.db)
	commentRepo := repository.NewCommentRepository(s.db)

	// Services
	authService := service.NewAuthService(userRepo, codeRepo, s.mailer, s.cfg, s.logger)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, s.authorizer)
	commentService := service.NewCommentService(commentRepo, reviewRepo, titleRepo, s.authorizer)

	// Handlers
	hs := s.settings.Settings
	authHandler := handler.NewAuthHandler(authService, hs)
	userHandler := handler.NewUserHandler(userService, hs)
	categoryHandler := handler.NewCategoryHandler(categoryService, hs)
	genreHandler := handler.NewGenreHandler(genreService, hs)
	titleHandler := handler.NewTitleHandler(titleService, hs)
	reviewHandler := handler.NewReviewHandler(reviewService, hs)
	commentHandler := handler.NewCommentHandler(commentService, hs)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	if s.settings.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/check-conn", s.checkConn)

	api := r.Group("/api/v1", middleware.AuthMiddleware(authService))

	auth := api.Group("/auth")
	{
		limit := middleware.RateLimit(s.redis, "auth_code", s.settings.CodeRequestLimit, s.settings.CodeRequestWindow, s.logger)
		auth.POST("/code", limit, authHandler.RequestCode)
		auth.POST("/token", authHandler.Token)
	}

	me := api.Group("/users/me", middleware.Authorize(s.authorizer, authz.ResourceMe))
	{
		me.GET("", userHandler.Me)
		me.PATCH("", userHandler.UpdateMe)
	}

	users := api.Group("/users", middleware.Authorize(s.authorizer, authz.ResourceUser))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:username", userHandler.Get)
		users.PATCH("/:username", userHandler.Update)
		users.DELETE("/:username", userHandler.Delete)
	}

	categories := api.Group("/categories", middleware.Authorize(s.authorizer, authz.ResourceCategory))
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", categoryHandler.Create)
		categories.DELETE("/:slug", categoryHandler.Delete)
	}

	genres := api.Group("/genres", middleware.Authorize(s.authorizer, authz.ResourceGenre))
	{
		genres.GET("", genreHandler.List)
		genres.POST("", genreHandler.Create)
		genres.DELETE("/:slug", genreHandler.Delete)
	}

	titles := api.Group("/titles", middleware.Authorize(s.authorizer, authz.ResourceTitle))
	{
		titles.GET("", titleHandler.List)
		titles.POST("", titleHandler.Create)
		titles.GET("/:title_id", titleHandler.Get)
		titles.PATCH("/:title_id", titleHandler.Update)
		titles.DELETE("/:title_id", titleHandler.Delete)
	}

	// Review and comment permissions depend on ownership, so the services decide.
	reviews := api.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", reviewHandler.List)
		reviews.POST("", reviewHandler.Create)
		reviews.GET("/:review_id", reviewHandler.Get)
		reviews.PATCH("/:review_id", reviewHandler.Update)
		reviews.DELETE("/:review_id", reviewHandler.Delete)
	}

	comments := api.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", commentHandler.List)
		comments.POST("", commentHandler.Create)
		comments.GET("/:comment_id", commentHandler.GetByID)
		comments.PATCH("/:comment_id", commentHandler.Update)
		comments.DELETE("/:comment_id", commentHandler.Delete)
	}

	return r
}

func (s *Server) checkConn(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
