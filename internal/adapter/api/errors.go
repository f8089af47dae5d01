package api

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/authapp"
	fitnessservice "github.com/burenotti/go_academy_backend/internal/app/fitness"
	goalservice "github.com/burenotti/go_academy_backend/internal/app/goal"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"github.com/burenotti/go_academy_backend/internal/domain/progress"
	"github.com/labstack/echo/v4"
	"net/http"
	"strings"
)

type JsonErrorModel struct {
	Message string `json:"message"`
}

func JsonError(c echo.Context, status int, content any) error {
	data := &JsonErrorModel{Message: fmt.Sprintf("%v", content)}
	return c.JSON(status, data)
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{storage.ErrInternal, http.StatusInternalServerError},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrUnauthorized, http.StatusUnauthorized},
	{authapp.ErrInvalidSession, http.StatusUnauthorized},
	{auth.ErrAccountExists, http.StatusConflict},

	{profile.ErrProfileNotFound, http.StatusNotFound},
	{profile.ErrProfileExists, http.StatusConflict},

	{course.ErrCourseNotFound, http.StatusNotFound},
	{course.ErrGradeNotFound, http.StatusNotFound},
	{course.ErrCourseExists, http.StatusConflict},
	{course.ErrGradeExists, http.StatusConflict},
	{course.ErrInvalidCredits, http.StatusBadRequest},
	{course.ErrInvalidGrade, http.StatusBadRequest},
	{course.ErrStudentMismatch, http.StatusForbidden},

	{fitness.ErrRecordNotFound, http.StatusNotFound},
	{fitness.ErrRecordExists, http.StatusConflict},
	{fitness.ErrInvalidValue, http.StatusBadRequest},
	{fitness.ErrInvalidGender, http.StatusBadRequest},
	{fitnessservice.ErrNotOwner, http.StatusForbidden},

	{goal.ErrGoalNotFound, http.StatusNotFound},
	{goal.ErrGoalExists, http.StatusConflict},
	{goal.ErrInvalidProgress, http.StatusBadRequest},
	{goal.ErrInvalidCategory, http.StatusBadRequest},
	{goalservice.ErrNotOwner, http.StatusForbidden},

	{mentorship.ErrMentorshipNotFound, http.StatusNotFound},
	{mentorship.ErrInviteNotFound, http.StatusNotFound},
	{mentorship.ErrMentorshipExists, http.StatusConflict},
	{mentorship.ErrInviteExists, http.StatusConflict},
	{mentorship.ErrLogExists, http.StatusConflict},
	{mentorship.ErrInviteAlreadyAccepted, http.StatusConflict},
	{mentorship.ErrNotMentor, http.StatusForbidden},
	{mentorship.ErrNotMember, http.StatusForbidden},
	{mentorship.ErrInviteExpired, http.StatusBadRequest},
	{mentorship.ErrInvalidSecret, http.StatusBadRequest},
	{mentorship.ErrEmptyNotes, http.StatusBadRequest},

	{progress.ErrSnapshotNotFound, http.StatusNotFound},
}

// StatusOf maps a service error onto an HTTP status. Unknown errors are internal.
func StatusOf(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// ServiceError reports err with the status it maps to. Internal errors are logged
// and hidden from the client.
func (s *Server) ServiceError(c echo.Context, err error) error {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
		return JsonError(c, status, "internal error")
	}
	return JsonError(c, status, clientMessage(err))
}

// clientMessage strips the unit of work wrapping and joined storage details so the
// client sees the domain message only.
func clientMessage(err error) string {
	for {
		u, ok := err.(interface{ Unwrap() []error })
		if !ok {
			break
		}
		errs := u.Unwrap()
		if len(errs) == 0 {
			break
		}
		err = errs[0]
	}
	msg := strings.TrimPrefix(err.Error(), "state rollback: ")
	msg, _, _ = strings.Cut(msg, "\n")
	return msg
}
