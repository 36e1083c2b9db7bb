package task

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/storage/database/inmem"
)

// failingStore fails every write once armed.
type failingStore struct {
	core.RecordStore
	fail bool
}

var errWrite = errors.New("write failed")

func (s *failingStore) Insert(ctx context.Context, table string, row core.Record) (core.Record, error) {
	if s.fail {
		return nil, errWrite
	}
	return s.RecordStore.Insert(ctx, table, row)
}

func (s *failingStore) Update(ctx context.Context, table string, match core.Match, fields core.Record) (core.Record, error) {
	if s.fail {
		return nil, errWrite
	}
	return s.RecordStore.Update(ctx, table, match, fields)
}

func (s *failingStore) Delete(ctx context.Context, table string, match core.Match) (core.Record, error) {
	if s.fail {
		return nil, errWrite
	}
	return s.RecordStore.Delete(ctx, table, match)
}

func newTestService(t *testing.T) (*Service, *failingStore) {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	store := &failingStore{RecordStore: db}
	validate, _ := core.NewValidator()
	return NewService(NewRepository(store), validate, WithSeed(DefaultSeed())), store
}

func TestService_SeedsAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	tasks, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), tasks)

	created, err := svc.Create(ctx, "u1", Fields{Title: "Essay", DueDate: "2026-02-18", Subject: "English"})
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID)

	_, err = svc.ToggleStatus(ctx, "u1", 2)
	require.NoError(t, err)
	_, err = svc.MoveTaskToDay(ctx, "u1", Month{Year: 2026, Month: time.February}, Drop{TaskID: 3, Day: 20})
	require.NoError(t, err)
	_, err = svc.Remove(ctx, "u1", 4, nil)
	require.NoError(t, err)

	// a fresh load reads back what was persisted
	svc.Forget("u1")
	reloaded, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, reloaded, 5)
	assert.Equal(t, []int{1, 2, 3, 5, 6}, ids(reloaded))
	assert.Equal(t, StatusCompleted, reloaded[1].Status)
	assert.Equal(t, "2026-02-20", reloaded[2].DueDate)

	rows, err := store.Select(ctx, Table, core.Match{"user_id": "u2"})
	require.NoError(t, err)
	assert.Empty(t, rows, "other users are not seeded until loaded")
}

func TestService_RestoresOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	before, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)

	store.fail = true
	_, err = svc.Create(ctx, "u1", Fields{Title: "Essay", DueDate: "2026-02-18", Subject: "English"})
	assert.Equal(t, errWrite, errors.Cause(err))
	_, err = svc.ToggleStatus(ctx, "u1", 2)
	assert.Error(t, err)
	_, err = svc.Remove(ctx, "u1", 2, nil)
	assert.Error(t, err)

	after, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_Filter(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.Filter(context.Background(), "u1", Criteria{Status: "pending", Due: DueToday}, today)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, ids(got))
}

func TestService_RemoveNonexistent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	before, _ := svc.Tasks(ctx, "u1")

	_, err := svc.Remove(ctx, "u1", 99, nil)
	assert.Equal(t, ErrNotFound, err)

	after, _ := svc.Tasks(ctx, "u1")
	assert.Equal(t, before, after)
}

func TestService_SeedsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	tasks, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	for _, tk := range tasks {
		_, err := svc.Remove(ctx, "u1", tk.ID, nil)
		require.NoError(t, err)
	}

	// sign out then back in, or a restart on the same store
	svc.Forget("u1")
	reloaded, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, reloaded, "deleted tasks came back")

	restarted := NewService(NewRepository(store), svc.validate, WithSeed(DefaultSeed()))
	reloaded, err = restarted.Tasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, reloaded)

	seeds, err := store.Select(ctx, SeedsTable, core.Match{"user_id": "u1"})
	require.NoError(t, err)
	assert.Len(t, seeds, 1)
}

func TestService_DoesNotSeedExistingTasks(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	require.NoError(t, NewRepository(store).Insert(ctx, "u1", Task{ID: 1, Title: "Lab report", DueDate: "2026-02-20", Status: StatusPending, Priority: PriorityLow, Subject: "Chemistry"}))

	tasks, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Lab report", tasks[0].Title)

	ok, err := svc.repo.IsSeeded(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  core.Record
		want string
	}{
		{name: "bad due date", row: core.Record{"due_date": "13/02/2026", "status": "pending"}, want: `task 9: due_date "13/02/2026": invalid task record`},
		{name: "no due date", row: core.Record{"due_date": "", "status": "pending"}, want: `task 9: due_date "": invalid task record`},
		{name: "bad status", row: core.Record{"due_date": "2026-02-13", "status": "done"}, want: `task 9: status "done": invalid task record`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, store := newTestService(t)
			row := core.Record{"user_id": "u1", "id": 9, "title": "Imported", "priority": "low", "subject": "Math", "course": ""}
			for k, v := range tt.row {
				row[k] = v
			}
			_, err := store.Insert(ctx, Table, row)
			require.NoError(t, err)

			_, err = svc.Tasks(ctx, "u1")
			require.Error(t, err)
			assert.Equal(t, ErrInvalidRecord, errors.Cause(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
