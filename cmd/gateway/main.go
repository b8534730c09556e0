package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/quizdesk/quizdesk/internal/api/http"
	auth "github.com/quizdesk/quizdesk/internal/auth/middleware"
	"github.com/quizdesk/quizdesk/internal/config"
	"github.com/quizdesk/quizdesk/internal/db"
	"github.com/quizdesk/quizdesk/internal/grading"
	"github.com/quizdesk/quizdesk/internal/rbac"
	"github.com/quizdesk/quizdesk/internal/results"
	"github.com/quizdesk/quizdesk/internal/store"
	"github.com/quizdesk/quizdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.Database.Driver), cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db open failed")
	}
	dbh.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbh.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbh.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	log.Info().Str("driver", cfg.Database.Driver).Msg("database connection established")

	st := store.NewSQLStore(dbh, cfg.Database.Driver, log)
	grader := grading.NewGrader()
	gradingSvc := grading.NewService(st, grader, time.Now, log)
	aggregator := results.NewAggregator(st, log)

	authSvc := auth.NewAuthService(cfg.Auth.HMACSecret, cfg.Auth.TokenTTL, map[string]auth.Credential{
		cfg.Auth.AdminUser: {PassHash: cfg.Auth.AdminPassHash, Role: "admin"},
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(st))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(st))

		pr.With(rbac.Require("class:manage")).
			Post("/classes", api.CreateClassHandler(st))
		pr.With(rbac.Require("class:manage")).
			Get("/classes/{classID}", api.GetClassHandler(st))
		pr.With(rbac.Require("class:manage")).
			Post("/classes/{classID}/students", api.EnrollStudentHandler(st))
		pr.With(rbac.Require("class:manage")).
			Delete("/classes/{classID}/students/{studentID}", api.RemoveStudentHandler(st))

		pr.With(rbac.Require("assignment:manage")).
			Post("/assignments", api.CreateAssignmentHandler(st))
		pr.With(rbac.Require("assignment:manage")).
			Patch("/assignments/{assignmentID}", api.UpdateAssignmentHandler(st))
		pr.With(rbac.RequireAny("assignment:manage", "quiz:view")).
			Get("/assignments/{assignmentID}", api.GetAssignmentHandler(st))
		pr.With(rbac.RequireAny("assignment:manage", "quiz:view")).
			Get("/classes/{classID}/assignments", api.ListAssignmentsHandler(st))
		pr.With(rbac.Require("assignment:manage")).
			Post("/assignments/{assignmentID}/reset", api.ResetSubmissionsHandler(st))

		pr.With(rbac.Require("submission:create")).
			Post("/assignments/{assignmentID}/submissions", api.SubmitHandler(gradingSvc))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/assignments/{assignmentID}/submissions/{candidateID}", api.GetSubmissionHandler(st))
		pr.With(rbac.Require("submission:view-all")).
			Get("/assignments/{assignmentID}/submissions", api.ListSubmissionsHandler(st))

		pr.With(rbac.RequireAny("results:view", "results:view-own")).
			Get("/classes/{classID}/results", api.ClassResultsHandler(aggregator))
		pr.With(rbac.Require("integrity:view")).
			Get("/assignments/{assignmentID}/integrity", api.IntegrityHandler(st))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Address).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := dbh.Close(); err != nil {
		log.Error().Err(err).Msg("db close failed")
	}
}
