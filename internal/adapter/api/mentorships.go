package api

import (
	mentorshipservice "github.com/burenotti/go_academy_backend/internal/app/mentorship"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
	"time"
)

func (s *Server) MountMentorships() {
	loginRequired := s.loginRequired()

	m := s.handler.Group("/mentorships", loginRequired)
	m.POST("", s.CreateMentorship)
	m.GET("", s.ListMentorships)
	m.GET("/:mentorship_id", s.GetMentorship)
	m.GET("/:mentorship_id/members", s.GetMentorshipMembers)
	m.POST("/:mentorship_id/invites", s.CreateInvite)
	m.POST("/:mentorship_id/logs", s.AddLogEntry)
	m.GET("/:mentorship_id/logs", s.ListLogEntries)

	s.handler.POST("/invites/accept", s.AcceptInvite, loginRequired)
}

func (s *Server) getMentorshipUoW() *unitofwork.UnitOfWork[*mentorshipservice.AtomicContext] {
	return unitofwork.New[*mentorshipservice.AtomicContext](
		s.db,
		mentorshipservice.AtomicContextFactory(s.logger),
		s.msgBus,
		s.logger,
	)
}

type CreateMentorshipRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description,omitempty" validate:"max=2048"`
}

type MentorshipResponse struct {
	MentorshipID string    `json:"mentorship_id"`
	MentorID     string    `json:"mentor_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func mentorshipResponse(m *mentorship.Mentorship) MentorshipResponse {
	return MentorshipResponse{
		MentorshipID: m.MentorshipID,
		MentorID:     m.MentorID,
		Name:         m.Name,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

func (s *Server) CreateMentorship(c echo.Context) error {
	var req CreateMentorshipRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	m, err := s.mentorshipService.CreateMentorship(
		c.Request().Context(), s.getMentorshipUoW(), uuid.NewString(), user.AccountID, req.Name, req.Description,
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, mentorshipResponse(m))
}

type PageQuery struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

func (q PageQuery) limit() int {
	if q.Limit == 0 {
		return 20
	}
	return q.Limit
}

func (s *Server) ListMentorships(c echo.Context) error {
	var req PageQuery
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	list, err := s.mentorshipService.ListForUser(
		c.Request().Context(), s.getMentorshipUoW(), user.AccountID, req.limit(), req.Offset,
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(list, func(m *mentorship.Mentorship, _ int) MentorshipResponse {
		return mentorshipResponse(m)
	}))
}

type mentorshipIDParam struct {
	MentorshipID string `param:"mentorship_id" validate:"required"`
}

func (s *Server) GetMentorship(c echo.Context) error {
	var req mentorshipIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	m, err := s.mentorshipService.GetByID(c.Request().Context(), s.getMentorshipUoW(), req.MentorshipID, user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mentorshipResponse(m))
}

type GetMembersRequest struct {
	MentorshipID string `param:"mentorship_id" validate:"required"`
	PageQuery
}

type MemberResponse struct {
	StudentID string    `json:"student_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (s *Server) GetMentorshipMembers(c echo.Context) error {
	var req GetMembersRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	members, err := s.mentorshipService.GetMembers(
		c.Request().Context(), s.getMentorshipUoW(), req.MentorshipID, user.AccountID, req.limit(), req.Offset,
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(members, func(m *mentorship.Member, _ int) MemberResponse {
		return MemberResponse{
			StudentID: m.StudentID,
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			JoinedAt:  m.JoinedAt,
		}
	}))
}

type CreateInviteResponse struct {
	MentorshipID string    `json:"mentorship_id"`
	InviteID     string    `json:"invite_id"`
	Secret       string    `json:"secret"`
	ValidUntil   time.Time `json:"valid_until"`
}

func (s *Server) CreateInvite(c echo.Context) error {
	var req mentorshipIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	inv, err := s.mentorshipService.CreateInvite(c.Request().Context(), s.getMentorshipUoW(), req.MentorshipID, user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, CreateInviteResponse{
		MentorshipID: inv.MentorshipID,
		InviteID:     inv.InviteID,
		Secret:       inv.Secret,
		ValidUntil:   inv.ValidUntil,
	})
}

type AcceptInviteRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type AcceptInviteResponse struct {
	InviteID   string    `json:"invite_id"`
	StudentID  string    `json:"student_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}

func (s *Server) AcceptInvite(c echo.Context) error {
	var req AcceptInviteRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	accept, err := s.mentorshipService.AcceptInvite(c.Request().Context(), s.getMentorshipUoW(), user.AccountID, req.Secret)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, AcceptInviteResponse{
		InviteID:   accept.InviteID,
		StudentID:  accept.StudentID,
		AcceptedAt: accept.AcceptedAt,
	})
}

type AddLogEntryRequest struct {
	MentorshipID string    `param:"mentorship_id" validate:"required"`
	StudentID    string    `json:"student_id" validate:"required"`
	Topic        string    `json:"topic,omitempty" validate:"max=128"`
	Notes        string    `json:"notes" validate:"required"`
	MetAt        time.Time `json:"met_at"`
}

type LogEntryResponse struct {
	LogID     string    `json:"log_id"`
	StudentID string    `json:"student_id"`
	Topic     string    `json:"topic,omitempty"`
	Notes     string    `json:"notes"`
	MetAt     time.Time `json:"met_at"`
	CreatedAt time.Time `json:"created_at"`
}

func logEntryResponse(e *mentorship.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		LogID:     e.LogID,
		StudentID: e.StudentID,
		Topic:     e.Topic,
		Notes:     e.Notes,
		MetAt:     e.MetAt,
		CreatedAt: e.CreatedAt,
	}
}

func (s *Server) AddLogEntry(c echo.Context) error {
	var req AddLogEntryRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	entry, err := s.mentorshipService.AddLogEntry(
		c.Request().Context(),
		s.getMentorshipUoW(),
		uuid.NewString(),
		req.MentorshipID,
		user.AccountID,
		mentorshipservice.LogData{
			StudentID: req.StudentID,
			Topic:     req.Topic,
			Notes:     req.Notes,
			MetAt:     req.MetAt,
		},
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, logEntryResponse(entry))
}

type ListLogEntriesRequest struct {
	MentorshipID string `param:"mentorship_id" validate:"required"`
	StudentID    string `query:"student_id"`
}

func (s *Server) ListLogEntries(c echo.Context) error {
	var req ListLogEntriesRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	entries, err := s.mentorshipService.ListLogEntries(
		c.Request().Context(), s.getMentorshipUoW(), req.MentorshipID, user.AccountID, req.StudentID,
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(entries, func(e *mentorship.LogEntry, _ int) LogEntryResponse {
		return logEntryResponse(e)
	}))
}
