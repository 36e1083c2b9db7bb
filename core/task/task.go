package task

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
)

var ErrNotFound = errors.New("task not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type Task struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	DueDate  string   `json:"dueDate"` // YYYY-MM-DD
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	Subject  string   `json:"subject"`
	Course   string   `json:"course"`
}

// Due returns the due date at midnight UTC.
func (t Task) Due() time.Time {
	d, _ := ParseDate(t.DueDate)
	return d
}

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// Fields contains what the add and edit forms may set on a Task.
type Fields struct {
	Title    string   `json:"title" validate:"notblank"`
	DueDate  string   `json:"dueDate" validate:"required,isodate"`
	Priority Priority `json:"priority" validate:"omitempty,oneof=high medium low"`
	Subject  string   `json:"subject" validate:"notblank"`
	Course   string   `json:"course"`
}

// Clean trims the text fields and defaults the priority to medium.
func (f *Fields) Clean() {
	f.Title = core.CleanString(f.Title)
	f.DueDate = core.CleanString(f.DueDate)
	f.Subject = core.CleanString(f.Subject)
	f.Course = core.CleanString(f.Course)
	f.Priority = Priority(core.CleanString(string(f.Priority), true /* lower */))
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
}

func (f *Fields) Validate(validate *validator.Validate) error {
	f.Clean()
	return validate.Struct(f)
}

// ParseDate parses a YYYY-MM-DD date to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(core.DateLayout, s)
}

// FormatDate formats the calendar date of t as YYYY-MM-DD (in t's location).
func FormatDate(t time.Time) string {
	return t.Format(core.DateLayout)
}

// Midnight returns the calendar date of t (in t's location) at midnight UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
