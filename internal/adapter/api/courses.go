package api

import (
	courseservice "github.com/burenotti/go_academy_backend/internal/app/course"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
	"time"
)

func (s *Server) MountCourses() {
	courses := s.handler.Group("", s.loginRequired())

	courses.POST("/courses", s.CreateCourse)
	courses.GET("/courses", s.ListCourses)
	courses.GET("/courses/summary", s.CourseSummary)
	courses.PUT("/courses/:course_id", s.UpdateCourse)
	courses.DELETE("/courses/:course_id", s.DeleteCourse)

	courses.POST("/courses/:course_id/grades", s.RecordGrade)
	courses.GET("/courses/:course_id/grades", s.ListGrades)
	courses.DELETE("/grades/:grade_id", s.DeleteGrade)

	courses.GET("/gpa", s.GetGPA)
}

func (s *Server) getCourseUoW() *unitofwork.UnitOfWork[*courseservice.AtomicContext] {
	return unitofwork.New[*courseservice.AtomicContext](
		s.db,
		courseservice.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type CourseRequest struct {
	CourseID string  `param:"course_id"`
	Name     string  `json:"name" validate:"required,max=128"`
	Category string  `json:"category,omitempty" validate:"max=64"`
	Credits  float64 `json:"credits" validate:"gt=0"`
	IsAP     bool    `json:"is_ap"`
}

func (r CourseRequest) data() courseservice.CourseData {
	return courseservice.CourseData{
		Name:     r.Name,
		Category: r.Category,
		Credits:  r.Credits,
		IsAP:     r.IsAP,
	}
}

type CourseResponse struct {
	CourseID  string    `json:"course_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Credits   float64   `json:"credits"`
	IsAP      bool      `json:"is_ap"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func courseResponse(c *course.Course) CourseResponse {
	return CourseResponse{
		CourseID:  c.CourseID,
		Name:      c.Name,
		Category:  c.Category,
		Credits:   c.Credits,
		IsAP:      c.IsAP,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *Server) CreateCourse(c echo.Context) error {
	var req CourseRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	created, err := s.courseService.CreateCourse(
		c.Request().Context(), s.getCourseUoW(), uuid.NewString(), user.AccountID, req.data(),
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, courseResponse(created))
}

func (s *Server) ListCourses(c echo.Context) error {
	user := currentUser(c)
	courses, err := s.courseService.ListCourses(c.Request().Context(), s.getCourseUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(courses, func(item *course.Course, _ int) CourseResponse {
		return courseResponse(item)
	}))
}

func (s *Server) UpdateCourse(c echo.Context) error {
	var req CourseRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	updated, err := s.courseService.UpdateCourse(
		c.Request().Context(), s.getCourseUoW(), req.CourseID, user.AccountID, req.data(),
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, courseResponse(updated))
}

type courseIDParam struct {
	CourseID string `param:"course_id" validate:"required"`
}

func (s *Server) DeleteCourse(c echo.Context) error {
	var req courseIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	if err := s.courseService.DeleteCourse(c.Request().Context(), s.getCourseUoW(), req.CourseID, user.AccountID); err != nil {
		return s.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type GradeRequest struct {
	CourseID string    `param:"course_id"`
	Title    string    `json:"title,omitempty" validate:"max=128"`
	Score    float64   `json:"score" validate:"min=0"`
	MaxScore float64   `json:"max_score" validate:"gt=0"`
	Weight   *float64  `json:"weight,omitempty" validate:"omitempty,min=0"`
	Date     time.Time `json:"date"`
}

type GradeResponse struct {
	GradeID  string    `json:"grade_id"`
	CourseID string    `json:"course_id"`
	Title    string    `json:"title,omitempty"`
	Score    float64   `json:"score"`
	MaxScore float64   `json:"max_score"`
	Weight   float64   `json:"weight"`
	Date     time.Time `json:"date"`
}

func gradeResponse(g *course.Grade) GradeResponse {
	return GradeResponse{
		GradeID:  g.GradeID,
		CourseID: g.CourseID,
		Title:    g.Title,
		Score:    g.Score,
		MaxScore: g.MaxScore,
		Weight:   g.Weight,
		Date:     g.Date,
	}
}

func (s *Server) RecordGrade(c echo.Context) error {
	var req GradeRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	g, err := s.courseService.RecordGrade(
		c.Request().Context(),
		s.getCourseUoW(),
		uuid.NewString(),
		req.CourseID,
		user.AccountID,
		courseservice.GradeData{
			Title:    req.Title,
			Score:    req.Score,
			MaxScore: req.MaxScore,
			Weight:   lo.FromPtrOr(req.Weight, 1),
			Date:     req.Date,
		},
	)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, gradeResponse(g))
}

func (s *Server) ListGrades(c echo.Context) error {
	var req courseIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	grades, err := s.courseService.ListGrades(c.Request().Context(), s.getCourseUoW(), req.CourseID, user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(grades, func(g *course.Grade, _ int) GradeResponse {
		return gradeResponse(g)
	}))
}

type gradeIDParam struct {
	GradeID string `param:"grade_id" validate:"required"`
}

func (s *Server) DeleteGrade(c echo.Context) error {
	var req gradeIDParam
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := currentUser(c)
	if err := s.courseService.DeleteGrade(c.Request().Context(), s.getCourseUoW(), req.GradeID, user.AccountID); err != nil {
		return s.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type CourseSummaryResponse struct {
	CourseResponse
	Average float64 `json:"average"`
	Letter  string  `json:"letter,omitempty"`
	Points  float64 `json:"points"`
	Graded  bool    `json:"graded"`
}

func (s *Server) CourseSummary(c echo.Context) error {
	user := currentUser(c)
	summary, err := s.courseService.CourseSummary(c.Request().Context(), s.getCourseUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(summary, func(item courseservice.Summary, _ int) CourseSummaryResponse {
		return CourseSummaryResponse{
			CourseResponse: courseResponse(item.Course),
			Average:        item.Average,
			Letter:         string(item.Letter),
			Points:         item.Points,
			Graded:         item.Graded,
		}
	}))
}

type GPAResponse struct {
	GPA    float64 `json:"gpa"`
	Graded bool    `json:"graded"`
}

func (s *Server) GetGPA(c echo.Context) error {
	user := currentUser(c)
	gpa, graded, err := s.courseService.GPA(c.Request().Context(), s.getCourseUoW(), user.AccountID)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, GPAResponse{GPA: gpa, Graded: graded})
}
