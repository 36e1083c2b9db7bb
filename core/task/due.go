package task

import (
	"math"
	"time"
)

type DueBucket string

const (
	DueAll     DueBucket = "all"
	DueOverdue DueBucket = "overdue"
	DueToday   DueBucket = "today"
	DueWeek    DueBucket = "week"
	DueMonth   DueBucket = "month"
)

var DueBuckets = []DueBucket{DueAll, DueOverdue, DueToday, DueWeek, DueMonth}

// DiffDays is the whole number of days from the calendar date of now to due.
func DiffDays(due, now time.Time) int {
	return int(math.Round(due.Sub(Midnight(now)).Hours() / 24))
}

// Contains reports whether a task due on `due` falls in the bucket, relative to now.
func (b DueBucket) Contains(due, now time.Time) bool {
	diff := DiffDays(due, now)
	switch b {
	case DueOverdue:
		return diff < 0
	case DueToday:
		return diff == 0
	case DueWeek:
		return diff > 0 && diff <= 7
	case DueMonth:
		return diff > 0 && diff <= 30
	default:
		return true
	}
}

// DueLabel describes when t is due relative to now.
func DueLabel(t Task, now time.Time) string {
	if t.IsCompleted() {
		return "Completed"
	}
	due := t.Due()
	switch DiffDays(due, now) {
	case 0:
		return "Due today"
	case 1:
		return "Due tomorrow"
	case -1:
		return "Was due yesterday"
	default:
		return "Due on " + due.Format("Jan 2")
	}
}
