package progressservice

import (
	"context"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"time"
)

// RecomputeEvents are the events that change a student's application progress.
var RecomputeEvents = []string{
	course.EventCourseChanged,
	course.EventGradeRecorded,
	course.EventGradeDeleted,
	fitness.EventRecorded,
	fitness.EventDeleted,
	goal.EventUpdated,
	goal.EventDeleted,
	profile.EventStudentUpdated,
}

// RecomputeHandler refreshes the snapshot of the student an event belongs to.
// Events that are not tied to a student are ignored.
func (s *Service) RecomputeHandler(
	uow *unitofwork.UnitOfWork[*AtomicContext],
	timeout time.Duration,
) func(domain.Event) error {
	return func(event domain.Event) error {
		se, ok := event.(domain.StudentEvent)
		if !ok || se.Student() == "" {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := s.Recompute(ctx, uow, se.Student())
		if err != nil {
			return err
		}
		s.logger.Debug("progress recomputed",
			"student_id", snap.StudentID,
			"overall", snap.Overall,
			"trigger", event.Type(),
		)
		return nil
	}
}
