package task

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
)

const (
	Table = "tasks"
	// SeedsTable records the users who were given the sample tasks.
	SeedsTable = "task_seeds"
)

// ErrInvalidRecord is returned when a stored task row cannot be read back as a Task.
var ErrInvalidRecord = errors.New("invalid task record")

// Repository persists tasks in the record store, one row per (user_id, id).
type Repository struct {
	store core.RecordStore
}

func NewRepository(store core.RecordStore) *Repository {
	return &Repository{store: store}
}

func (repo *Repository) toRecord(userID string, t Task) core.Record {
	return core.Record{
		"user_id":  userID,
		"id":       t.ID,
		"title":    t.Title,
		"due_date": t.DueDate,
		"status":   string(t.Status),
		"priority": string(t.Priority),
		"subject":  t.Subject,
		"course":   t.Course,
	}
}

func (repo *Repository) fromRecord(rec core.Record) (Task, error) {
	t := Task{
		ID:       rec.Int("id"),
		Title:    rec.String("title"),
		DueDate:  rec.String("due_date"),
		Status:   Status(rec.String("status")),
		Priority: Priority(rec.String("priority")),
		Subject:  rec.String("subject"),
		Course:   rec.String("course"),
	}
	if _, err := ParseDate(t.DueDate); err != nil {
		return Task{}, errors.Wrapf(ErrInvalidRecord, "task %d: due_date %q", t.ID, t.DueDate)
	}
	if t.Status != StatusPending && t.Status != StatusCompleted {
		return Task{}, errors.Wrapf(ErrInvalidRecord, "task %d: status %q", t.ID, t.Status)
	}
	return t, nil
}

// trapNotFound maps core.ErrRecordNotFound to ErrNotFound
func (repo *Repository) trapNotFound(err error, msg string) error {
	if errors.Cause(err) == core.ErrRecordNotFound {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *Repository) QueryByUser(ctx context.Context, userID string) ([]Task, error) {
	recs, err := repo.store.Select(ctx, Table, core.Match{"user_id": userID}, core.DBOrdering{Field: "id", Ascending: true})
	if err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		t, err := repo.fromRecord(rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (repo *Repository) Insert(ctx context.Context, userID string, t Task) error {
	if _, err := repo.store.Insert(ctx, Table, repo.toRecord(userID, t)); err != nil {
		return errors.Wrap(err, "inserting task")
	}
	return nil
}

func (repo *Repository) Save(ctx context.Context, userID string, t Task) error {
	fields := repo.toRecord(userID, t)
	delete(fields, "user_id")
	delete(fields, "id")
	_, err := repo.store.Update(ctx, Table, core.Match{"user_id": userID, "id": t.ID}, fields)
	if err != nil {
		return repo.trapNotFound(err, "updating task")
	}
	return nil
}

func (repo *Repository) Delete(ctx context.Context, userID string, id int) error {
	if _, err := repo.store.Delete(ctx, Table, core.Match{"user_id": userID, "id": id}); err != nil {
		return repo.trapNotFound(err, "deleting task")
	}
	return nil
}

// IsSeeded reports whether the user was already given the sample tasks.
func (repo *Repository) IsSeeded(ctx context.Context, userID string) (bool, error) {
	recs, err := repo.store.Select(ctx, SeedsTable, core.Match{"user_id": userID})
	if err != nil {
		return false, errors.Wrap(err, "querying task seeds")
	}
	return len(recs) > 0, nil
}

func (repo *Repository) MarkSeeded(ctx context.Context, userID string) error {
	if _, err := repo.store.Insert(ctx, SeedsTable, core.Record{"user_id": userID}); err != nil {
		return errors.Wrap(err, "marking tasks seeded")
	}
	return nil
}
