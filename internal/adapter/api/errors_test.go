package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/stretchr/testify/assert"
)

func rolledBack(err error) error {
	return errors.Join(fmt.Errorf("state rollback: %w", err), unitofwork.ErrRollback)
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{rolledBack(course.ErrCourseNotFound), http.StatusNotFound},
		{rolledBack(fmt.Errorf("%w: grade g1", course.ErrStudentMismatch)), http.StatusForbidden},
		{rolledBack(fmt.Errorf("%w: value must be a non-negative number", fitness.ErrInvalidValue)), http.StatusBadRequest},
		{goal.ErrInvalidProgress, http.StatusBadRequest},
		{mentorship.ErrInviteAlreadyAccepted, http.StatusConflict},
		{rolledBack(storage.InternalError(errors.New("connection reset"))), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusOf(tc.err), tc.err.Error())
	}
}

func TestClientMessage(t *testing.T) {
	err := rolledBack(fmt.Errorf("%w: grade g1", course.ErrStudentMismatch))
	assert.Equal(t, "course belongs to another student: grade g1", clientMessage(err))

	joined := rolledBack(errors.Join(mentorship.ErrInviteExists, errors.New("duplicate key value")))
	assert.Equal(t, "invite already exists", clientMessage(joined))

	assert.Equal(t, "goal not found", clientMessage(goal.ErrGoalNotFound))
}
