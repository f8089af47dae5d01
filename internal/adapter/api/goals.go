package api

import (
	goalservice "github.com/burenotti/go_academy_backend/internal/app/goal"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
	"time"
)

func (s *Server) MountGoals() {
	goals := s.handler.Group("/goals", s.loginRequired())

	goals.POST("", s.CreateGoal)
	goals.GET("", s.ListGoals)
	goals.PUT("/:goal_id/progress", s.UpdateGoalProgress)
	goals.POST("/:goal_id/complete", s.CompleteGoal)
	goals.DELETE("/:goal_id", s.DeleteGoal)
}

func (s *Server) getGoalUoW() *unitofwork.UnitOfWork[*goalservice.AtomicContext] {
	return unitofwork.New[*goalservice.AtomicContext](
		s.db,
		goalservice.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required,max=128"`
	Description string     `json:"description,omitempty" validate:"max=2048"`
	Category    string     `json:"category" validate:"required"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type GoalResponse struct {
	GoalID      string     `json:"goal_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func goalResponse(g *goal.Goal) GoalResponse {
	return GoalResponse{
		GoalID:      g.GoalID,
		Title:       g.Title,
		Description: g.Description,
		Category:    string(g.Category),
		Progress:    g.Progress,
		Completed:   g.Completed,
		Deadline:    g.Deadline,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (s *Server) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	g, err := s.goalService.CreateGoal(
		c.Request().Context(),
		s.getGoalUoW(),
		uuid.NewString(),
		user.AccountID,
		req.Title,
		req.Description,
		req.Category,
		req.Deadline,
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, goalResponse(g))
}

func (s *Server) ListGoals(c echo.Context) error {
	user := currentUser(c)
	goals, err := s.goalService.ListGoals(c.Request().Context(), s.getGoalUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(goals, func(g *goal.Goal, _ int) GoalResponse {
		return goalResponse(g)
	}))
}

type UpdateGoalProgressRequest struct {
	GoalID   string `param:"goal_id" validate:"required"`
	Progress *int   `json:"progress" validate:"required"`
}

func (s *Server) UpdateGoalProgress(c echo.Context) error {
	var req UpdateGoalProgressRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	g, err := s.goalService.UpdateProgress(
		c.Request().Context(), s.getGoalUoW(), req.GoalID, user.AccountID, *req.Progress,
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, goalResponse(g))
}

type goalIDParam struct {
	GoalID string `param:"goal_id" validate:"required"`
}

func (s *Server) CompleteGoal(c echo.Context) error {
	var req goalIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	g, err := s.goalService.CompleteGoal(c.Request().Context(), s.getGoalUoW(), req.GoalID, user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, goalResponse(g))
}

func (s *Server) DeleteGoal(c echo.Context) error {
	var req goalIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	if err := s.goalService.DeleteGoal(c.Request().Context(), s.getGoalUoW(), req.GoalID, user.AccountID); err != nil {
		return s.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
