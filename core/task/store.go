package task

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrCancelled is returned by Store.Remove when the confirmation step declines the deletion.
var ErrCancelled = errors.New("deletion cancelled")

// Store is the in-memory task collection of one user.
// Every mutation replaces the whole collection; the slices it hands out are copies.
// A Store is not safe for concurrent use: it is owned by a single event loop or by Service.
type Store struct {
	validate *validator.Validate
	tasks    []Task
}

func NewStore(validate *validator.Validate, tasks ...Task) *Store {
	s := &Store{validate: validate}
	s.Replace(tasks)
	return s
}

func (s *Store) Tasks() []Task {
	return copyTasks(s.tasks)
}

func (s *Store) Len() int { return len(s.tasks) }

// Replace swaps the whole collection (e.g. when loading or restoring a snapshot).
func (s *Store) Replace(tasks []Task) {
	s.tasks = copyTasks(tasks)
}

func (s *Store) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Get(id int) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

// NextID is max(existing ids, 0) + 1.
func (s *Store) NextID() int {
	var max int
	for _, t := range s.tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Create validates f and appends a new pending Task.
// The collection is left untouched when validation fails.
func (s *Store) Create(f Fields) (Task, error) {
	if err := f.Validate(s.validate); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:       s.NextID(),
		Title:    f.Title,
		DueDate:  f.DueDate,
		Status:   StatusPending,
		Priority: f.Priority,
		Subject:  f.Subject,
		Course:   f.Course,
	}
	next := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, t)
	return t, nil
}

// replace swaps the task at index i in a fresh copy of the collection.
func (s *Store) replace(i int, t Task) {
	next := copyTasks(s.tasks)
	next[i] = t
	s.tasks = next
}

// Update replaces everything but the ID and Status of a Task.
func (s *Store) Update(id int, f Fields) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	if err := f.Validate(s.validate); err != nil {
		return Task{}, err
	}
	t := s.tasks[i]
	t.Title = f.Title
	t.DueDate = f.DueDate
	t.Priority = f.Priority
	t.Subject = f.Subject
	t.Course = f.Course
	s.replace(i, t)
	return t, nil
}

// ToggleStatus flips pending <-> completed.
func (s *Store) ToggleStatus(id int) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := s.tasks[i]
	t.Status = t.Status.Toggled()
	s.replace(i, t)
	return t, nil
}

// Reschedule replaces only the due date of a Task.
func (s *Store) Reschedule(id int, due time.Time) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := s.tasks[i]
	t.DueDate = FormatDate(due)
	s.replace(i, t)
	return t, nil
}

// Remove deletes a Task once confirm approves it. A nil confirm approves.
func (s *Store) Remove(id int, confirm func(Task) bool) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := s.tasks[i]
	if confirm != nil && !confirm(t) {
		return Task{}, ErrCancelled
	}
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	return t, nil
}

// Subjects lists the distinct subjects in use, sorted.
func (s *Store) Subjects() []string {
	return Subjects(s.tasks)
}

// Counts returns the number of pending and completed tasks.
func (s *Store) Counts() (pending, completed int) {
	return Counts(s.tasks)
}

func Counts(tasks []Task) (pending, completed int) {
	for _, t := range tasks {
		if t.IsCompleted() {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

func Subjects(tasks []Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	subjects := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		subjects = append(subjects, t.Subject)
	}
	sort.Strings(subjects)
	return subjects
}

func copyTasks(tasks []Task) []Task {
	c := make([]Task, len(tasks))
	copy(c, tasks)
	return c
}
