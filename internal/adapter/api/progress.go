package api

import (
	progressservice "github.com/burenotti/go_academy_backend/internal/app/progress"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/progress"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
	"time"
)

func (s *Server) MountProgress() {
	p := s.handler.Group("/progress", s.loginRequired())

	p.GET("", s.GetProgress)
	p.GET("/latest", s.GetLatestProgress)
	p.POST("/recompute", s.RecomputeProgress)
}

func (s *Server) getProgressUoW() *unitofwork.UnitOfWork[*progressservice.AtomicContext] {
	return unitofwork.New[*progressservice.AtomicContext](
		s.db,
		progressservice.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type ComponentResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type ProgressResponse struct {
	Overall    int                 `json:"overall"`
	Components []ComponentResponse `json:"components"`
	GPA        float64             `json:"gpa"`
	CFAScore   float64             `json:"cfa_score"`
}

func (s *Server) GetProgress(c echo.Context) error {
	user := currentUser(c)
	rep, err := s.progressService.Compute(c.Request().Context(), s.getProgressUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ProgressResponse{
		Overall: rep.Overall,
		Components: lo.Map(rep.Components, func(item scoring.Component, _ int) ComponentResponse {
			return ComponentResponse{Name: item.Name, Value: item.Value}
		}),
		GPA:      rep.GPA,
		CFAScore: rep.CFAScore,
	})
}

type SnapshotResponse struct {
	Overall    int       `json:"overall"`
	Goals      *float64  `json:"goals"`
	Fitness    *float64  `json:"fitness"`
	GPA        *float64  `json:"gpa"`
	ComputedAt time.Time `json:"computed_at"`
}

func snapshotResponse(snap *progress.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Overall:    snap.Overall,
		Goals:      snap.Goals,
		Fitness:    snap.Fitness,
		GPA:        snap.GPA,
		ComputedAt: snap.ComputedAt,
	}
}

func (s *Server) GetLatestProgress(c echo.Context) error {
	user := currentUser(c)
	snap, err := s.progressService.Latest(c.Request().Context(), s.getProgressUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, snapshotResponse(snap))
}

func (s *Server) RecomputeProgress(c echo.Context) error {
	user := currentUser(c)
	snap, err := s.progressService.Recompute(c.Request().Context(), s.getProgressUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, snapshotResponse(snap))
}
