package task

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	validate, _ := core.NewValidator()
	return NewStore(validate, DefaultSeed()...)
}

func TestStore_Create(t *testing.T) {
	tests := []struct {
		name      string
		fields    Fields
		wantErr   bool
		wantID    int
		wantPrio  Priority
		wantTitle string
	}{
		{name: "valid", fields: Fields{Title: " Essay ", DueDate: "2026-03-01", Priority: "High", Subject: "English"}, wantID: 6, wantPrio: PriorityHigh, wantTitle: "Essay"},
		{name: "default priority", fields: Fields{Title: "Essay", DueDate: "2026-03-01", Subject: "English"}, wantID: 6, wantPrio: PriorityMedium, wantTitle: "Essay"},
		{name: "blank title", fields: Fields{Title: "  ", DueDate: "2026-03-01", Subject: "English"}, wantErr: true},
		{name: "missing due date", fields: Fields{Title: "Essay", Subject: "English"}, wantErr: true},
		{name: "bad due date", fields: Fields{Title: "Essay", DueDate: "03/01/2026", Subject: "English"}, wantErr: true},
		{name: "bad priority", fields: Fields{Title: "Essay", DueDate: "2026-03-01", Priority: "urgent", Subject: "English"}, wantErr: true},
		{name: "blank subject", fields: Fields{Title: "Essay", DueDate: "2026-03-01"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			before := s.Tasks()

			got, err := s.Create(tt.fields)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				assert.Equal(t, before, s.Tasks(), "collection must be unchanged")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantPrio, got.Priority)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, StatusPending, got.Status)
			assert.Equal(t, len(before)+1, s.Len())
		})
	}
}

func TestStore_NextID(t *testing.T) {
	validate, _ := core.NewValidator()
	assert.Equal(t, 1, NewStore(validate).NextID())
	assert.Equal(t, 10, NewStore(validate, Task{ID: 9}, Task{ID: 2}).NextID())
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t)
	f := Fields{Title: "Chemistry Final", DueDate: "2026-02-20", Priority: PriorityLow, Subject: "Chemistry", Course: "Chem 202"}

	got, err := s.Update(1, f)
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 1, Title: "Chemistry Final", DueDate: "2026-02-20", Status: StatusCompleted, Priority: PriorityLow, Subject: "Chemistry", Course: "Chem 202"}, got)

	fetched, _ := s.Get(1)
	assert.Equal(t, got, fetched)

	_, err = s.Update(99, f)
	assert.Equal(t, ErrNotFound, err)

	before := s.Tasks()
	_, err = s.Update(2, Fields{DueDate: "2026-02-20", Subject: "Chemistry"})
	assert.Error(t, err)
	assert.Equal(t, before, s.Tasks())
}

func TestStore_ToggleStatus(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ToggleStatus(2)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	got, err = s.ToggleStatus(2)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	_, err = s.ToggleStatus(42)
	assert.Equal(t, ErrNotFound, err)
}

func TestStore_Remove(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		confirm func(Task) bool
		wantErr error
		wantLen int
	}{
		{name: "confirmed", id: 3, confirm: func(Task) bool { return true }, wantLen: 4},
		{name: "nil confirm", id: 3, wantLen: 4},
		{name: "declined", id: 3, confirm: func(Task) bool { return false }, wantErr: ErrCancelled, wantLen: 5},
		{name: "nonexistent", id: 99, wantErr: ErrNotFound, wantLen: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			before := s.Tasks()

			_, err := s.Remove(tt.id, tt.confirm)
			if err != tt.wantErr {
				t.Errorf("Remove() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", s.Len(), tt.wantLen)
			}
			if tt.wantErr != nil && !reflect.DeepEqual(before, s.Tasks()) {
				t.Errorf("collection changed on failed removal")
			}
		})
	}
}

func TestStore_TasksIsACopy(t *testing.T) {
	s := newTestStore(t)
	tasks := s.Tasks()
	tasks[0].Title = "mutated"

	got, _ := s.Get(1)
	assert.Equal(t, "Review Biology Ch 3", got.Title)
}

func TestStore_SubjectsAndCounts(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, []string{"Biology", "Chemistry", "Math", "Physics"}, s.Subjects())

	pending, completed := s.Counts()
	assert.Equal(t, 4, pending)
	assert.Equal(t, 1, completed)
}
