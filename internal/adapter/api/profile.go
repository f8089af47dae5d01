package api

import (
	profileapp "github.com/burenotti/go_academy_backend/internal/app/profile"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

func (s *Server) MountProfile() {
	loginRequired := s.loginRequired()

	s.handler.POST("/students/:user_id", s.CreateStudent)
	s.handler.GET("/students/:user_id", s.GetStudentByID)
	s.handler.PUT("/students/me", s.UpdateMyStudent, loginRequired)

	s.handler.POST("/mentors/:user_id", s.CreateMentor)
	s.handler.GET("/mentors/:user_id", s.GetMentorByID)

	s.handler.GET("/profiles/me", s.GetMyProfile, loginRequired)
}

func (s *Server) getProfileUoW() *unitofwork.UnitOfWork[*profileapp.AtomicContext] {
	return unitofwork.New[*profileapp.AtomicContext](
		s.db,
		profileapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type StudentRequest struct {
	UserID         string     `param:"user_id"`
	FirstName      string     `json:"first_name" validate:"required,max=64"`
	LastName       string     `json:"last_name" validate:"required,max=64"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         string     `json:"gender" validate:"required"`
	TargetAcademy  string     `json:"target_academy,omitempty" validate:"max=128"`
	GraduationYear int        `json:"graduation_year,omitempty" validate:"omitempty,min=1900,max=2200"`
}

func (r StudentRequest) data() profileapp.StudentData {
	return profileapp.StudentData{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		BirthDate:      r.BirthDate,
		Gender:         r.Gender,
		TargetAcademy:  r.TargetAcademy,
		GraduationYear: r.GraduationYear,
	}
}

type StudentResponse struct {
	UserID         string     `json:"user_id"`
	Type           string     `json:"type"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         string     `json:"gender"`
	TargetAcademy  string     `json:"target_academy,omitempty"`
	GraduationYear int        `json:"graduation_year,omitempty"`
}

func studentResponse(st *profile.Student) StudentResponse {
	return StudentResponse{
		UserID:         st.UserID,
		Type:           st.Type(),
		FirstName:      st.FirstName,
		LastName:       st.LastName,
		BirthDate:      st.BirthDate,
		Gender:         string(st.Gender),
		TargetAcademy:  st.TargetAcademy,
		GraduationYear: st.GraduationYear,
	}
}

func (s *Server) CreateStudent(c echo.Context) error {
	var req StudentRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	st, err := s.profileService.CreateStudent(c.Request().Context(), req.UserID, req.data(), s.getProfileUoW())
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, studentResponse(st))
}

func (s *Server) UpdateMyStudent(c echo.Context) error {
	var req StudentRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	st, err := s.profileService.UpdateStudent(c.Request().Context(), user.AccountID, req.data(), s.getProfileUoW())
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, studentResponse(st))
}

type CreateMentorRequest struct {
	UserID          string `param:"user_id"`
	FirstName       string `json:"first_name" validate:"required,max=64"`
	LastName        string `json:"last_name" validate:"required,max=64"`
	Organization    string `json:"organization,omitempty" validate:"max=128"`
	YearsExperience int    `json:"years_experience,omitempty" validate:"min=0,max=80"`
	Bio             string `json:"bio,omitempty" validate:"max=2048"`
}

type MentorResponse struct {
	UserID          string `json:"user_id"`
	Type            string `json:"type"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Organization    string `json:"organization,omitempty"`
	YearsExperience int    `json:"years_experience,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

func mentorResponse(m *profile.Mentor) MentorResponse {
	return MentorResponse{
		UserID:          m.UserID,
		Type:            m.Type(),
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Organization:    m.Organization,
		YearsExperience: m.YearsExperience,
		Bio:             m.Bio,
	}
}

func (s *Server) CreateMentor(c echo.Context) error {
	var req CreateMentorRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	m, err := s.profileService.CreateMentor(
		c.Request().Context(),
		req.UserID,
		req.FirstName,
		req.LastName,
		req.Organization,
		req.YearsExperience,
		req.Bio,
		s.getProfileUoW(),
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, mentorResponse(m))
}

type userIDParam struct {
	UserID string `param:"user_id" validate:"required"`
}

func (s *Server) GetMentorByID(c echo.Context) error {
	var req userIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	m, err := s.profileService.GetMentorByID(c.Request().Context(), req.UserID, s.getProfileUoW())
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mentorResponse(m))
}

func (s *Server) GetStudentByID(c echo.Context) error {
	var req userIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	st, err := s.profileService.GetStudentByID(c.Request().Context(), req.UserID, s.getProfileUoW())
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, studentResponse(st))
}

func (s *Server) GetMyProfile(c echo.Context) error {
	user := currentUser(c)

	p, err := s.profileService.GetProfileByID(c.Request().Context(), user.AccountID, s.getProfileUoW())
	if err != nil {
		return s.ServiceError(c, err)
	}

	switch v := p.(type) {
	case *profile.Mentor:
		return c.JSON(http.StatusOK, mentorResponse(v))
	case *profile.Student:
		return c.JSON(http.StatusOK, studentResponse(v))
	default:
		return JsonError(c, http.StatusInternalServerError, "unknown profile type")
	}
}
