package schedule_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/engine/store"
	"github.com/warp/workforce-engine/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// seededService loads the canonical two-position fixture:
//
//	Position 1: task-1 (8h, Jan 11), task-2 (6h, Jan 12)
//	Position 2: task-3 (5h, Jan 11)
//
// with Worker 1/2 splitting task-1 (3+4) and task-2 (8+2), and Worker 3
// covering task-3 alone.
func seededService(t *testing.T) (*schedule.Service, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SavePositions(ctx, []engine.Position{
		{ID: "pos-1", Name: "Position 1"},
		{ID: "pos-2", Name: "Position 2"},
	}))
	require.NoError(t, m.SaveWorkers(ctx, []engine.Worker{
		{ID: "w-1", Name: "Worker 1", Position: "pos-1"},
		{ID: "w-2", Name: "Worker 2", Position: "pos-1"},
		{ID: "w-3", Name: "Worker 3", Position: "pos-2"},
	}))
	require.NoError(t, m.SaveTasks(ctx, []engine.Task{
		{ID: "t-1", Name: "Task 1", Position: "pos-1", Duration: 8, Date: engine.NewDate(2025, time.January, 11)},
		{ID: "t-2", Name: "Task 2", Position: "pos-1", Duration: 6, Date: engine.NewDate(2025, time.January, 12)},
		{ID: "t-3", Name: "Task 3", Position: "pos-2", Duration: 5, Date: engine.NewDate(2025, time.January, 11)},
	}))
	_, err := m.SaveAssignments(ctx, []engine.Assignment{
		{TaskID: "t-1", WorkerID: "w-1", WorkDate: engine.NewDate(2025, time.January, 11), Hours: 3},
		{TaskID: "t-1", WorkerID: "w-2", WorkDate: engine.NewDate(2025, time.January, 11), Hours: 4},
		{TaskID: "t-2", WorkerID: "w-1", WorkDate: engine.NewDate(2025, time.January, 12), Hours: 8},
		{TaskID: "t-2", WorkerID: "w-2", WorkDate: engine.NewDate(2025, time.January, 12), Hours: 2},
		{TaskID: "t-3", WorkerID: "w-3", WorkDate: engine.NewDate(2025, time.January, 11), Hours: 5},
	})
	require.NoError(t, err)

	return schedule.NewService(m), m
}

func findRow(t *testing.T, table schedule.Table, name, rowType string) schedule.Row {
	t.Helper()
	for _, row := range table.Rows {
		if row.Name == name && row.Type == rowType {
			return row
		}
	}
	t.Fatalf("no %s row named %q in table", rowType, name)
	return schedule.Row{}
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestSchedule_PositionAndWorkerTotals(t *testing.T) {
	svc, _ := seededService(t)

	table, err := svc.Schedule(context.Background(),
		engine.NewDate(2025, time.January, 11), engine.NewDate(2025, time.January, 12))
	require.NoError(t, err)

	assert.Equal(t, []string{"11 Jan", "12 Jan"}, table.DateColumns)

	position1 := findRow(t, table, "Position 1", schedule.RowTypePosition)
	assert.Equal(t, 7, position1.DailyHours["11 Jan"], "3 + 4")
	assert.Equal(t, 10, position1.DailyHours["12 Jan"], "8 + 2")

	position2 := findRow(t, table, "Position 2", schedule.RowTypePosition)
	assert.Equal(t, 5, position2.DailyHours["11 Jan"])
	assert.Equal(t, 0, position2.DailyHours["12 Jan"], "zero-filled column")

	worker1 := findRow(t, table, "Worker 1", schedule.RowTypeWorker)
	assert.Equal(t, 3, worker1.DailyHours["11 Jan"])
	assert.Equal(t, 8, worker1.DailyHours["12 Jan"])

	worker2 := findRow(t, table, "Worker 2", schedule.RowTypeWorker)
	assert.Equal(t, 4, worker2.DailyHours["11 Jan"])
	assert.Equal(t, 2, worker2.DailyHours["12 Jan"])

	worker3 := findRow(t, table, "Worker 3", schedule.RowTypeWorker)
	assert.Equal(t, 5, worker3.DailyHours["11 Jan"])
	assert.Equal(t, 0, worker3.DailyHours["12 Jan"])
}

func TestSchedule_RowOrder(t *testing.T) {
	svc, _ := seededService(t)

	table, err := svc.Schedule(context.Background(),
		engine.NewDate(2025, time.January, 11), engine.NewDate(2025, time.January, 12))
	require.NoError(t, err)

	got := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		got = append(got, row.Name)
	}
	assert.Equal(t,
		[]string{"Position 1", "Worker 1", "Worker 2", "Position 2", "Worker 3"},
		got, "positions in name order, each followed by its workers")
}

func TestSchedule_MultipleAssignmentsSameDaySum(t *testing.T) {
	svc, m := seededService(t)
	ctx := context.Background()

	require.NoError(t, m.SaveTasks(ctx, []engine.Task{
		{ID: "t-4", Name: "Task 4", Position: "pos-1", Duration: 2, Date: engine.NewDate(2025, time.January, 11)},
	}))
	_, err := m.SaveAssignments(ctx, []engine.Assignment{
		{TaskID: "t-4", WorkerID: "w-1", WorkDate: engine.NewDate(2025, time.January, 11), Hours: 2},
	})
	require.NoError(t, err)

	table, err := svc.Schedule(ctx,
		engine.NewDate(2025, time.January, 11), engine.NewDate(2025, time.January, 11))
	require.NoError(t, err)

	worker1 := findRow(t, table, "Worker 1", schedule.RowTypeWorker)
	assert.Equal(t, 5, worker1.DailyHours["11 Jan"], "3 + 2 on the same day")
}

func TestSchedule_WorkerWithoutAssignmentsIsAbsent(t *testing.T) {
	svc, m := seededService(t)
	ctx := context.Background()

	require.NoError(t, m.SaveWorkers(ctx, []engine.Worker{
		{ID: "w-idle", Name: "Idle Worker", Position: "pos-1"},
	}))

	table, err := svc.Schedule(ctx,
		engine.NewDate(2025, time.January, 11), engine.NewDate(2025, time.January, 12))
	require.NoError(t, err)

	for _, row := range table.Rows {
		assert.NotEqual(t, "Idle Worker", row.Name)
	}
}

// =============================================================================
// UNASSIGNED BUCKETS
// =============================================================================

func TestSchedule_UnassignedTasksRow(t *testing.T) {
	svc, m := seededService(t)
	ctx := context.Background()

	// Position 1 gains a task nobody picked up.
	require.NoError(t, m.SaveTasks(ctx, []engine.Task{
		{ID: "t-open", Name: "Open", Position: "pos-1", Duration: 6, Date: engine.NewDate(2025, time.January, 12)},
	}))

	table, err := svc.Schedule(ctx,
		engine.NewDate(2025, time.January, 11), engine.NewDate(2025, time.January, 12))
	require.NoError(t, err)

	leftover := findRow(t, table, schedule.UnassignedTasks, schedule.RowTypeWorker)
	assert.Equal(t, 0, leftover.DailyHours["11 Jan"])
	assert.Equal(t, 6, leftover.DailyHours["12 Jan"])

	// The leftover row sits last in its position block, after the workers.
	names := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		names = append(names, row.Name)
	}
	assert.Equal(t,
		[]string{"Position 1", "Worker 1", "Worker 2", schedule.UnassignedTasks, "Position 2", "Worker 3"},
		names)

	// Unassigned hours do not inflate the position's assigned totals.
	position1 := findRow(t, table, "Position 1", schedule.RowTypePosition)
	assert.Equal(t, 10, position1.DailyHours["12 Jan"])
}

func TestSchedule_PositionlessWorkAggregatesUnderUnassigned(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := engine.NewDate(2025, time.January, 11)

	require.NoError(t, m.SaveWorkers(ctx, []engine.Worker{{ID: "w-1", Name: "Floater"}}))
	require.NoError(t, m.SaveTasks(ctx, []engine.Task{
		{ID: "t-a", Name: "Odd job", Duration: 3, Date: day},
		{ID: "t-b", Name: "Other odd job", Duration: 2, Date: day},
	}))
	_, err := m.SaveAssignments(ctx, []engine.Assignment{
		{TaskID: "t-a", WorkerID: "w-1", WorkDate: day, Hours: 3},
	})
	require.NoError(t, err)

	table, err := schedule.NewService(m).Schedule(ctx, day, day)
	require.NoError(t, err)

	bucket := findRow(t, table, schedule.UnassignedPosition, schedule.RowTypePosition)
	assert.Equal(t, 3, bucket.DailyHours["11 Jan"], "assigned hours only")

	floater := findRow(t, table, "Floater", schedule.RowTypeWorker)
	assert.Equal(t, 3, floater.DailyHours["11 Jan"])

	leftover := findRow(t, table, schedule.UnassignedTasks, schedule.RowTypeWorker)
	assert.Equal(t, 2, leftover.DailyHours["11 Jan"])
}

func TestSchedule_PositionWithOnlyUnassignedTasksStillListed(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := engine.NewDate(2025, time.January, 11)

	require.NoError(t, m.SavePositions(ctx, []engine.Position{{ID: "pos-q", Name: "Quietest"}}))
	require.NoError(t, m.SaveTasks(ctx, []engine.Task{
		{ID: "t-q", Name: "Waiting", Position: "pos-q", Duration: 4, Date: day},
	}))

	table, err := schedule.NewService(m).Schedule(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "Quietest", table.Rows[0].Name)
	assert.Equal(t, schedule.RowTypePosition, table.Rows[0].Type)
	assert.Equal(t, 0, table.Rows[0].DailyHours["11 Jan"], "nothing assigned yet")

	assert.Equal(t, schedule.UnassignedTasks, table.Rows[1].Name)
	assert.Equal(t, 4, table.Rows[1].DailyHours["11 Jan"])
}

// =============================================================================
// WINDOWS AND SERIALIZATION
// =============================================================================

func TestSchedule_EmptyWindowKeepsColumns(t *testing.T) {
	svc, _ := seededService(t)

	table, err := svc.Schedule(context.Background(),
		engine.NewDate(2025, time.January, 15), engine.NewDate(2025, time.January, 16))
	require.NoError(t, err)

	assert.Equal(t, []string{"15 Jan", "16 Jan"}, table.DateColumns)
	assert.Empty(t, table.Rows)
}

func TestSchedule_SingleDayWindow(t *testing.T) {
	svc, _ := seededService(t)

	table, err := svc.Schedule(context.Background(),
		engine.NewDate(2025, time.January, 11), engine.NewDate(2025, time.January, 11))
	require.NoError(t, err)

	assert.Equal(t, []string{"11 Jan"}, table.DateColumns)
	for _, row := range table.Rows {
		assert.Len(t, row.DailyHours, 1)
		assert.Contains(t, row.DailyHours, "11 Jan")
	}
}

func TestSchedule_EmptyTableMarshalsAsArrays(t *testing.T) {
	m := store.NewMemory()
	day := engine.NewDate(2025, time.January, 11)

	table, err := schedule.NewService(m).Schedule(context.Background(), day, day)
	require.NoError(t, err)

	raw, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": [], "date_columns": ["11 Jan"]}`, string(raw))
}

func TestSchedule_WorkerUnderTaskPositionNotOwnPosition(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := engine.NewDate(2025, time.January, 11)

	require.NoError(t, m.SavePositions(ctx, []engine.Position{
		{ID: "pos-1", Name: "Position 1"},
		{ID: "pos-2", Name: "Position 2"},
	}))
	// Worker belongs to Position 2 but covers a Position 1 task.
	require.NoError(t, m.SaveWorkers(ctx, []engine.Worker{
		{ID: "w-1", Name: "Crossover", Position: "pos-2"},
	}))
	require.NoError(t, m.SaveTasks(ctx, []engine.Task{
		{ID: "t-1", Name: "Task", Position: "pos-1", Duration: 4, Date: day},
	}))
	_, err := m.SaveAssignments(ctx, []engine.Assignment{
		{TaskID: "t-1", WorkerID: "w-1", WorkDate: day, Hours: 4},
	})
	require.NoError(t, err)

	table, err := schedule.NewService(m).Schedule(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "Position 1", table.Rows[0].Name)
	assert.Equal(t, "Crossover", table.Rows[1].Name)
}
