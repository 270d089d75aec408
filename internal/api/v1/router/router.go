// Package router wires the storage, service and handler layers into the
// HTTP surface of the API.
package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/access"
	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the full HTTP handler and the database it runs against.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *repository.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	dsn := cfg.DBConnectionString
	// Local development talks to a plain Postgres without TLS; production
	// connection strings carry their own sslmode.
	if cfg.IsDevelopment() && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	db, err := repository.New(ctx, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB connection")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// S3-compatible storage client. The gzip middleware removal works around
	// signature errors with some S3-compatible services.
	// See: https://github.com/supabase/storage/issues/577
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load S3 config")
		db.Close()
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepo(db)
	contentRepo := repository.NewContentRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	contactRepo := repository.NewContactRepo(db)

	jwtSecret := []byte(cfg.JWTSecret)
	tokenTTL := time.Duration(cfg.AccessTokenTTLMin) * time.Minute
	resetTTL := time.Duration(cfg.ResetTokenTTLHours) * time.Hour

	authSvc := service.NewAuthService(profileRepo, jwtSecret, tokenTTL, resetTTL, logger)
	catalogSvc := service.NewCatalogService(contentRepo, logger)
	moderationSvc := service.NewModerationService(contentRepo, logger)
	billingSvc := service.NewBillingService(paymentRepo, subscriptionRepo, logger)
	userSvc := service.NewUserService(profileRepo, subscriptionRepo, logger)
	storageSvc := service.NewStorageService(s3Client, cfg.S3Bucket, cfg.S3URL, logger)
	contactSvc := service.NewContactService(contactRepo, logger)

	authHandler := handler.NewAuthHandler(authSvc, userSvc, validate)
	contentHandler := handler.NewContentHandler(catalogSvc, storageSvc)
	paymentHandler := handler.NewPaymentHandler(billingSvc, storageSvc, validate)
	assistantHandler := handler.NewAssistantHandler(moderationSvc, storageSvc, validate)
	adminHandler := handler.NewAdminHandler(moderationSvc, billingSvc, userSvc, contactSvc, storageSvc, validate)
	contactHandler := handler.NewContactHandler(contactSvc, validate)

	authMw := middleware.AuthMiddleware(jwtSecret, profileRepo, logger)
	guardTimeout := time.Duration(cfg.GuardTimeoutSec) * time.Second
	studentMw := chain(authMw, middleware.Guard(access.StudentArea, guardTimeout))
	assistantMw := chain(authMw, middleware.Guard(access.AssistantArea, guardTimeout))
	adminMw := chain(authMw, middleware.Guard(access.AdminArea, guardTimeout))

	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux, authMw)
	contactHandler.RegisterRoutes(apiV1Mux)
	contentHandler.RegisterRoutes(apiV1Mux, studentMw)
	paymentHandler.RegisterRoutes(apiV1Mux, studentMw)
	assistantHandler.RegisterRoutes(apiV1Mux, assistantMw)
	adminHandler.RegisterRoutes(apiV1Mux, adminMw)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/swagger/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger/swagger.json")
	})
	mux.Handle("/swagger/", http.StripPrefix("/swagger/", http.FileServer(http.Dir("./docs/swagger/swagger-ui"))))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux)), db, nil
}

// chain applies middlewares left to right: the first wraps the outermost.
func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
