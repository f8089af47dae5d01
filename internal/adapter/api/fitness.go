package api

import (
	fitnessservice "github.com/burenotti/go_academy_backend/internal/app/fitness"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
	"time"
)

func (s *Server) MountFitness() {
	loginRequired := s.loginRequired()

	s.handler.POST("/fitness/records", s.RecordExercise, loginRequired)
	s.handler.GET("/fitness/records", s.ListRecords, loginRequired)
	s.handler.DELETE("/fitness/records/:record_id", s.DeleteRecord, loginRequired)
	s.handler.GET("/fitness/scorecard", s.GetScorecard, loginRequired)

	s.handler.GET("/fitness/standards/:gender", s.GetStandards)
}

func (s *Server) getFitnessUoW() *unitofwork.UnitOfWork[*fitnessservice.AtomicContext] {
	return unitofwork.New[*fitnessservice.AtomicContext](
		s.db,
		fitnessservice.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type RecordRequest struct {
	Type       string    `json:"type" validate:"required,max=64"`
	Value      float64   `json:"value" validate:"min=0"`
	Target     float64   `json:"target,omitempty" validate:"min=0"`
	Unit       string    `json:"unit,omitempty" validate:"max=16"`
	RecordedAt time.Time `json:"recorded_at"`
}

type RecordResponse struct {
	RecordID   string    `json:"record_id"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	Target     float64   `json:"target,omitempty"`
	Unit       string    `json:"unit,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func recordResponse(r *fitness.Record) RecordResponse {
	return RecordResponse{
		RecordID:   r.RecordID,
		Type:       string(r.Type),
		Value:      r.Value,
		Target:     r.Target,
		Unit:       r.Unit,
		RecordedAt: r.RecordedAt,
	}
}

func (s *Server) RecordExercise(c echo.Context) error {
	var req RecordRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	r, err := s.fitnessService.RecordExercise(
		c.Request().Context(),
		s.getFitnessUoW(),
		uuid.NewString(),
		user.AccountID,
		fitnessservice.RecordData{
			Type:       req.Type,
			Value:      req.Value,
			Target:     req.Target,
			Unit:       req.Unit,
			RecordedAt: req.RecordedAt,
		},
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, recordResponse(r))
}

func (s *Server) ListRecords(c echo.Context) error {
	user := currentUser(c)
	records, err := s.fitnessService.ListRecords(c.Request().Context(), s.getFitnessUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(records, func(r *fitness.Record, _ int) RecordResponse {
		return recordResponse(r)
	}))
}

type recordIDParam struct {
	RecordID string `param:"record_id" validate:"required"`
}

func (s *Server) DeleteRecord(c echo.Context) error {
	var req recordIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	if err := s.fitnessService.DeleteRecord(c.Request().Context(), s.getFitnessUoW(), req.RecordID, user.AccountID); err != nil {
		return s.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type EventResultResponse struct {
	Type       string           `json:"type"`
	Value      float64          `json:"value"`
	RecordedAt time.Time        `json:"recorded_at"`
	Standard   scoring.Standard `json:"standard"`
	Percentage float64          `json:"percentage"`
	Score      int              `json:"score"`
	Status     string           `json:"status"`
}

type ScorecardResponse struct {
	Gender string                `json:"gender"`
	Score  float64               `json:"score"`
	Events []EventResultResponse `json:"events"`
}

func (s *Server) GetScorecard(c echo.Context) error {
	user := currentUser(c)
	card, err := s.fitnessService.Scorecard(c.Request().Context(), s.getFitnessUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ScorecardResponse{
		Gender: string(card.Gender),
		Score:  card.Score,
		Events: lo.Map(card.Events, func(e scoring.EventResult, _ int) EventResultResponse {
			return EventResultResponse{
				Type:       string(e.Type),
				Value:      e.Record.Value,
				RecordedAt: e.Record.RecordedAt,
				Standard:   e.Standard,
				Percentage: e.Progress.Percentage,
				Score:      e.Progress.Score,
				Status:     string(e.Status),
			}
		}),
	})
}

type StandardResponse struct {
	Type string `json:"type"`
	scoring.Standard
}

func (s *Server) GetStandards(c echo.Context) error {
	gender, err := fitness.ParseGender(c.Param("gender"))
	if err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	table := scoring.Standards(gender)
	out := make([]StandardResponse, 0, len(table))
	for _, t := range fitness.CanonicalEvents {
		if std, ok := table[t]; ok {
			out = append(out, StandardResponse{Type: string(t), Standard: std})
		}
	}
	return c.JSON(http.StatusOK, out)
}
