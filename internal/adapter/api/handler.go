package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/authapp"
	courseservice "github.com/burenotti/go_academy_backend/internal/app/course"
	fitnessservice "github.com/burenotti/go_academy_backend/internal/app/fitness"
	goalservice "github.com/burenotti/go_academy_backend/internal/app/goal"
	mentorshipservice "github.com/burenotti/go_academy_backend/internal/app/mentorship"
	profileapp "github.com/burenotti/go_academy_backend/internal/app/profile"
	progressservice "github.com/burenotti/go_academy_backend/internal/app/progress"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
	"log/slog"
	"time"
)

const (
	writeTimeout      = 10 * time.Second
	readTimeout       = 10 * time.Second
	idleTimeout       = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 4096
)

type Server struct {
	handler           *echo.Echo
	logger            *slog.Logger
	addr              string
	db                storage.DBContext
	authService       *authapp.Service
	profileService    *profileapp.Service
	courseService     *courseservice.Service
	fitnessService    *fitnessservice.Service
	goalService       *goalservice.Service
	mentorshipService *mentorshipservice.Service
	progressService   *progressservice.Service
	msgBus            unitofwork.MessageBus
	validator         *validator.Validate
}

func NewServer(opt ...Option) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Server.WriteTimeout = writeTimeout
	e.Server.ReadTimeout = readTimeout
	e.Server.IdleTimeout = idleTimeout
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	e.Server.MaxHeaderBytes = maxHeaderBytes

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Server{
		handler:   e,
		validator: v,
		logger:    slog.Default(),
	}

	for _, opt := range opt {
		opt(s)
	}

	e.Use(slogecho.NewWithConfig(s.logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
		WithSpanID:       true,
		WithTraceID:      true,
	}))
	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.MountAuth()
	s.MountProfile()
	s.MountCourses()
	s.MountFitness()
	s.MountGoals()
	s.MountMentorships()
	s.MountProgress()
}

func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

func (s *Server) loginRequired() echo.MiddlewareFunc {
	return LoginRequired(s.authService.Authorizer)
}

func (s *Server) bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return fmt.Errorf("bad request")
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("bad request")
		}
		return fmt.Errorf("%s: %s", errs[0].Field(), errs[0].Error())
	}
	return nil
}
