package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"github.com/burenotti/go_academy_backend/internal/adapter/api"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/authapp"
	courseservice "github.com/burenotti/go_academy_backend/internal/app/course"
	fitnessservice "github.com/burenotti/go_academy_backend/internal/app/fitness"
	goalservice "github.com/burenotti/go_academy_backend/internal/app/goal"
	"github.com/burenotti/go_academy_backend/internal/app/messagebus"
	mentorshipservice "github.com/burenotti/go_academy_backend/internal/app/mentorship"
	profileapp "github.com/burenotti/go_academy_backend/internal/app/profile"
	progressservice "github.com/burenotti/go_academy_backend/internal/app/progress"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/config"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leporo/sqlf"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	logger := initLogger(cfg)

	sqlf.SetDialect(sqlf.PostgreSQL)

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	defer db.Close()
	dbCtx := storage.DB{DB: db}

	authorizer := &authapp.Authorizer{
		Cost:           bcrypt.DefaultCost,
		Secret:         cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
		SessionTTL:     cfg.JWT.RefreshTokenTTL,
	}

	progressSvc := progressservice.New(logger, cfg.Progress.DefaultGender)

	bus := messagebus.New(logger)
	defer bus.Close()

	bus.RegisterMany(
		progressSvc.RecomputeHandler(
			unitofwork.New[*progressservice.AtomicContext](dbCtx, progressservice.NewAtomicContext, bus, logger),
			cfg.Progress.RecomputeTimeout,
		),
		progressservice.RecomputeEvents...,
	)
	bus.RegisterMany(func(event domain.Event) error {
		logger.Info("event processed", "type", event.Type(), "at", event.PublishedAt())
		return nil
	}, auth.EventCreated, mentorship.EventInviteAccepted, mentorship.EventLogAdded)

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.DBContext(dbCtx),
		api.MessageBus(bus),
		api.AuthService(authapp.NewService(authorizer, logger)),
		api.ProfileService(profileapp.New(logger)),
		api.CourseService(courseservice.New(logger)),
		api.FitnessService(fitnessservice.New(logger, cfg.Progress.DefaultGender)),
		api.GoalService(goalservice.New(logger)),
		api.MentorshipService(mentorshipservice.New(logger)),
		api.ProgressService(progressSvc),
	)

	ctx := context.Background()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error)

	go func() {
		defer close(errCh)
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server closed with unexpected error", "error", err)
		}
	}
	logger.Info("server shutdown")
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.App.Env {
	case config.Development:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		})
	case config.Production:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelInfo,
		})
	default:
		panic("invalid env")
	}

	return slog.New(handler)
}
