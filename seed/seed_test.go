package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/engine"
	"github.com/warp/workforce-engine/engine/store"
	"github.com/warp/workforce-engine/seed"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

var validSeedFiles = map[string]string{
	"positions.json": `[
		{"id": "pos-1", "name": "Welder"},
		{"id": "pos-2", "name": "Assembler"}
	]`,
	"workers.json": `[
		{"id": "w-1", "name": "Mira", "position_id": "pos-1"},
		{"id": "w-2", "name": "Ada"}
	]`,
	"tasks.json": `[
		{"id": "t-1", "position_id": "pos-1", "duration": 4, "date": "2026-03-02"},
		{"id": "t-2", "duration": 2, "date": "2026-03-03"}
	]`,
	"assignments.json": `[
		{"task_id": "t-1", "worker_id": "w-1"}
	]`,
}

func writeSeedDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_ReadsAllFourFiles(t *testing.T) {
	dir := writeSeedDir(t, validSeedFiles)

	data, err := seed.Load(dir)
	require.NoError(t, err)

	assert.Len(t, data.Positions, 2)
	assert.Len(t, data.Workers, 2)
	assert.Len(t, data.Tasks, 2)
	assert.Len(t, data.Assignments, 1)
	assert.Equal(t, "pos-1", data.Workers[0].PositionID)
	assert.Empty(t, data.Workers[1].PositionID)
}

func TestLoad_EveryFileIsRequired(t *testing.T) {
	for _, missing := range []string{"positions.json", "workers.json", "tasks.json", "assignments.json"} {
		files := map[string]string{}
		for name, content := range validSeedFiles {
			if name != missing {
				files[name] = content
			}
		}
		_, err := seed.Load(writeSeedDir(t, files))
		assert.Error(t, err, "missing %s must fail the load", missing)
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	files := map[string]string{}
	for name, content := range validSeedFiles {
		files[name] = content
	}
	files["tasks.json"] = `{"not": "a list"}`

	_, err := seed.Load(writeSeedDir(t, files))
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_CatchesBrokenBundles(t *testing.T) {
	base := func() *seed.Data {
		return &seed.Data{
			Positions:   []seed.PositionJSON{{ID: "pos-1", Name: "Welder"}},
			Workers:     []seed.WorkerJSON{{ID: "w-1", Name: "Mira", PositionID: "pos-1"}},
			Tasks:       []seed.TaskJSON{{ID: "t-1", Duration: 4, Date: "2026-03-02"}},
			Assignments: []seed.AssignmentJSON{{TaskID: "t-1", WorkerID: "w-1"}},
		}
	}

	valid := base()
	require.NoError(t, valid.Validate())

	cases := map[string]func(*seed.Data){
		"position without id":       func(d *seed.Data) { d.Positions[0].ID = "" },
		"position without name":     func(d *seed.Data) { d.Positions[0].Name = "" },
		"worker without id":         func(d *seed.Data) { d.Workers[0].ID = "" },
		"worker unknown position":   func(d *seed.Data) { d.Workers[0].PositionID = "pos-ghost" },
		"task without id":           func(d *seed.Data) { d.Tasks[0].ID = "" },
		"task zero duration":        func(d *seed.Data) { d.Tasks[0].Duration = 0 },
		"task bad date":             func(d *seed.Data) { d.Tasks[0].Date = "03/02/2026" },
		"task unknown position":     func(d *seed.Data) { d.Tasks[0].PositionID = "pos-ghost" },
		"assignment unknown task":   func(d *seed.Data) { d.Assignments[0].TaskID = "t-ghost" },
		"assignment unknown worker": func(d *seed.Data) { d.Assignments[0].WorkerID = "w-ghost" },
	}

	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			data := base()
			corrupt(data)
			assert.Error(t, data.Validate())
		})
	}
}

// =============================================================================
// APPLY
// =============================================================================

func TestApply_WritesBundleAndDerivesAssignmentFields(t *testing.T) {
	dir := writeSeedDir(t, validSeedFiles)
	data, err := seed.Load(dir)
	require.NoError(t, err)

	m := store.NewMemory()
	ctx := context.Background()

	counts, err := seed.Apply(ctx, m, data, false)
	require.NoError(t, err)
	assert.Equal(t, seed.Counts{Positions: 2, Workers: 2, Tasks: 2, Assignments: 1}, counts)

	records, err := m.AssignmentsInRange(ctx,
		engine.NewDate(2026, time.March, 1), engine.NewDate(2026, time.March, 31))
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Work date and hours come from task t-1, not from the seed file.
	assert.Equal(t, engine.NewDate(2026, time.March, 2), records[0].WorkDate)
	assert.Equal(t, 4, records[0].Hours)

	tasks, err := m.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t-1", tasks[0].Name, "nameless seed tasks fall back to their id")
}

func TestApply_TruncateWipesExistingData(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SavePositions(ctx, []engine.Position{{ID: "stale", Name: "Stale"}}))

	data, err := seed.Load(writeSeedDir(t, validSeedFiles))
	require.NoError(t, err)

	_, err = seed.Apply(ctx, m, data, true)
	require.NoError(t, err)

	positions, err := m.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	for _, p := range positions {
		assert.NotEqual(t, "Stale", p.Name)
	}
}

func TestApply_WithoutTruncateKeepsExistingData(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SavePositions(ctx, []engine.Position{{ID: "keep", Name: "Keeper"}}))

	data, err := seed.Load(writeSeedDir(t, validSeedFiles))
	require.NoError(t, err)

	_, err = seed.Apply(ctx, m, data, false)
	require.NoError(t, err)

	positions, err := m.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 3)
}

func TestApply_DuplicateAssignmentPairCountedOnce(t *testing.T) {
	files := map[string]string{}
	for name, content := range validSeedFiles {
		files[name] = content
	}
	files["assignments.json"] = `[
		{"task_id": "t-1", "worker_id": "w-1"},
		{"task_id": "t-1", "worker_id": "w-1"}
	]`

	data, err := seed.Load(writeSeedDir(t, files))
	require.NoError(t, err)

	counts, err := seed.Apply(context.Background(), store.NewMemory(), data, false)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Assignments)
}

func TestApply_RefusesInvalidBundle(t *testing.T) {
	m := store.NewMemory()
	data := &seed.Data{
		Tasks: []seed.TaskJSON{{ID: "t-1", Duration: -1, Date: "2026-03-02"}},
	}

	_, err := seed.Apply(context.Background(), m, data, false)
	require.Error(t, err)

	tasks, err := m.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks, "nothing may be written when validation fails")
}
