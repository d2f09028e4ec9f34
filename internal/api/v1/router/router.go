package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Elias-Front-end/management-system/internal/api/v1/handler"
	"github.com/Elias-Front-end/management-system/internal/config"
	"github.com/Elias-Front-end/management-system/internal/database"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/middleware"
	"github.com/Elias-Front-end/management-system/internal/pubsub"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/secrets"
	"github.com/Elias-Front-end/management-system/internal/service"
	"github.com/Elias-Front-end/management-system/internal/session"
	"github.com/Elias-Front-end/management-system/internal/storage"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Auth       service.AuthService
	Course     service.CourseService
	Cohort     service.CohortService
	Resource   service.ResourceService
	Student    service.StudentService
	Enrollment service.EnrollmentService
	Admin      service.AdminService
}

// Deps is everything NewHandler needs besides configuration.
type Deps struct {
	Services Services
	Tokens   *session.TokenSigner
	Cookies  *session.CookieManager
	Metrics  *metrics.Metrics
	// Ping backs /healthz. Nil reports healthy.
	Ping func(ctx context.Context) error
}

// New opens the infrastructure described by cfg and returns the HTTP handler
// with a cleanup func releasing it.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn().Err(err).Msg("Failed to release resource")
			}
		}
	}

	// 1. Secrets
	var accessor secrets.Accessor
	if cfg.SessionSecretName != "" || cfg.TokenSecretName != "" {
		sm, err := secrets.NewSecretManager(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("secret manager: %w", err)
		}
		closers = append(closers, sm.Close)
		accessor = sm
	}
	sessionSecret, err := secrets.Resolve(ctx, accessor, cfg.SessionSecret, cfg.SessionSecretName)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("session secret: %w", err)
	}
	tokenSecret, err := secrets.Resolve(ctx, accessor, cfg.TokenSecret, cfg.TokenSecretName)
	if errors.Is(err, secrets.ErrMissing) {
		tokenSecret, err = sessionSecret, nil
	}
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("token secret: %w", err)
	}

	// 2. Database
	db, err := database.Open(ctx, cfg.DBConnectionString, cfg.IsDevelopment(), logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, db.Close)

	// 3. Object storage
	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("s3 client: %w", err)
	}
	store := storage.NewS3Store(s3Client, cfg.S3Bucket, cfg.S3URLExpiry)

	// 4. Domain events
	var events pubsub.Emitter = pubsub.NoopEmitter{}
	if cfg.PubSubEventsTopic != "" {
		publisher, err := pubsub.NewPublisher(ctx, cfg, pubsub.EmulatorOptions(cfg)...)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("pubsub publisher: %w", err)
		}
		closers = append(closers, publisher.Close)
		events = pubsub.NewEmitter(publisher, cfg.PubSubEventsTopic, logger)
	} else {
		logger.Info().Msg("PUBSUB_EVENTS_TOPIC not set, domain events disabled")
	}

	// 5. Metrics
	m := metrics.New()
	m.RegisterDB(db)

	// 6. Repositories & services
	courseRepo := repository.NewCourseRepo(db)
	cohortRepo := repository.NewCohortRepo(db)
	resourceRepo := repository.NewResourceRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)

	files := service.NewFiles(store, logger)
	svc := Services{
		Auth:       service.NewAuthService(accountRepo, studentRepo, logger),
		Course:     service.NewCourseService(courseRepo, resourceRepo, files, logger),
		Cohort:     service.NewCohortService(cohortRepo, courseRepo, resourceRepo, studentRepo, files, logger),
		Resource:   service.NewResourceService(resourceRepo, cohortRepo, courseRepo, studentRepo, files, events, logger),
		Student:    service.NewStudentService(studentRepo, accountRepo, cohortRepo, logger),
		Enrollment: service.NewEnrollmentService(enrollmentRepo, studentRepo, cohortRepo, events, logger),
		Admin:      service.NewAdminService(accountRepo, logger),
	}

	h := NewHandler(cfg, Deps{
		Services: svc,
		Tokens:   session.NewTokenSigner(tokenSecret, "management-system", cfg.TokenTTL),
		Cookies:  session.NewCookieManager(sessionSecret, cfg.SessionCookieName, cfg.SessionMaxAge, !cfg.IsDevelopment()),
		Metrics:  m,
		Ping:     db.PingContext,
	}, logger)

	logger.Info().Msg("Router initialized")
	return h, cleanup, nil
}

// NewHandler assembles the HTTP surface: ops endpoints at the root and the
// huma API under /v1.
func NewHandler(cfg *config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	validate := handler.NewValidator()
	svc := deps.Services

	authMiddleware := middleware.AuthMiddleware(svc.Auth, deps.Tokens, deps.Cookies, logger)
	apiRouter, api := SetupHumaAPI(cfg, authMiddleware, logger)
	RegisterRoutes(api, Handlers{
		Auth:       handler.NewAuthHandler(svc.Auth, deps.Tokens, deps.Cookies, deps.Metrics, logger),
		Course:     handler.NewCourseHandler(svc.Course, svc.Resource, validate, deps.Metrics, logger),
		Cohort:     handler.NewCohortHandler(svc.Cohort, svc.Resource, validate, deps.Metrics, logger),
		Resource:   handler.NewResourceHandler(svc.Resource, validate, deps.Metrics, logger),
		Student:    handler.NewStudentHandler(svc.Student, svc.Resource, validate, deps.Metrics, logger),
		Enrollment: handler.NewEnrollmentHandler(svc.Enrollment, validate, deps.Metrics, logger),
		Admin:      handler.NewAdminHandler(svc.Admin, validate, deps.Metrics, logger),
	}, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggerMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				logger.Error().Err(err).Msg("Health check failed")
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Mount("/v1", http.StripPrefix("/v1", apiRouter))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}
