package pgutil

import (
	"errors"
	"testing"

	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leporo/sqlf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekOrErr(t *testing.T) {
	notFound := errors.New("not found")

	_, err := PeekOrErr(map[string]int{}, nil, notFound)
	assert.ErrorIs(t, err, notFound)

	boom := errors.New("boom")
	_, err = PeekOrErr(map[string]int{"a": 1}, boom, notFound)
	assert.ErrorIs(t, err, boom)

	v, err := PeekOrErr(map[string]int{"a": 1}, nil, notFound)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	assert.Equal(t, 7, Peek(map[string]int{}, 7))
	assert.Equal(t, 0, Peek(map[string]int{}))
}

func TestViolatesConstraint(t *testing.T) {
	err := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "goals_pkey"}

	assert.True(t, ViolatesConstraint(err, "goals_pkey"))
	assert.True(t, ViolatesConstraint(errors.Join(errors.New("wrapped"), err), "goals_pkey"))
	assert.False(t, ViolatesConstraint(err, "courses_pkey"))
	assert.False(t, ViolatesConstraint(errors.New("plain"), "goals_pkey"))

	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestMakeUpdateQuery(t *testing.T) {
	stored := &goal.Goal{GoalID: "g1", Title: "Old", Progress: 10}
	changed := &goal.Goal{GoalID: "g1", Title: "New", Progress: 60}

	changes, err := Changes(stored, changed)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	q := MakeUpdateQuery(sqlf.Update("goals"), changes).Where("goal_id = ?", "g1")
	defer q.Close()

	assert.ElementsMatch(t, []any{"New", 60, "g1"}, q.Args())
	assert.Contains(t, q.String(), "title")
	assert.Contains(t, q.String(), "progress")
}

func TestBasePostgresStorage_CollectEvents(t *testing.T) {
	base := NewBasePostgresStorage(nil)
	g := goal.New("g1", "s1", "Title", "", goal.CategoryOther, nil)

	base.MarkSeen(g.GoalID, g)
	base.MarkSeen(g.GoalID, g)

	events := base.CollectEvents()
	require.Len(t, events, 1)
	assert.Equal(t, goal.EventUpdated, events[0].Type())
	assert.Empty(t, base.CollectEvents())
}
