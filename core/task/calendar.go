package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrIgnoredDrop is returned for drops that do not carry a usable task ID.
var ErrIgnoredDrop = errors.New("drop ignored")

// Month is a displayed calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Date returns the given day of the month at midnight UTC.
// Out of range days roll over like time.Date does.
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// Days is the number of days in the month (day 0 of the next month).
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of the 1st (0 = Sunday), i.e. the number of leading blank cells.
func (m Month) FirstWeekday() int {
	return int(m.Date(1).Weekday())
}

func (m Month) Prev() Month { return MonthOf(m.Date(1).AddDate(0, -1, 0)) }
func (m Month) Next() Month { return MonthOf(m.Date(1).AddDate(0, 1, 0)) }

func (m Month) Contains(d time.Time) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

func (m Month) String() string {
	return m.Date(1).Format("January 2006")
}

// TasksByDay counts the tasks due on each day of the month. Tasks of other months are left out.
func (m Month) TasksByDay(tasks []Task) map[int]int {
	counts := make(map[int]int)
	for _, t := range tasks {
		due := t.Due()
		if !m.Contains(due) {
			continue
		}
		counts[due.Day()]++
	}
	return counts
}

// TasksOnDate returns the tasks due on the same calendar date as date.
func TasksOnDate(date time.Time, tasks []Task) []Task {
	day := Midnight(date)
	res := make([]Task, 0)
	for _, t := range tasks {
		if t.Due().Equal(day) {
			res = append(res, t)
		}
	}
	return res
}

// Drop is a task dragged onto a day cell of the displayed month.
type Drop struct {
	TaskID int `json:"task_id"`
	Day    int `json:"day"`
}

// ParseDrop reads the dragged task ID; anything that is not a number yields a zero ID.
func ParseDrop(payload string, day int) Drop {
	id, _ := strconv.Atoi(strings.TrimSpace(payload))
	return Drop{TaskID: id, Day: day}
}

// MoveTaskToDay reschedules the dropped task to the target day of m.
// Drops without a positive task ID are ignored.
func (m Month) MoveTaskToDay(s *Store, d Drop) (Task, error) {
	if d.TaskID <= 0 {
		return Task{}, ErrIgnoredDrop
	}
	return s.Reschedule(d.TaskID, m.Date(d.Day))
}

// Cell is one square of the month grid. Blank leading cells have Day == 0.
type Cell struct {
	Day        int  `json:"day"`
	Count      int  `json:"count"`
	IsToday    bool `json:"is_today"`
	IsSelected bool `json:"is_selected"`
}

// Planner is the transient month view state.
type Planner struct {
	Month    Month     `json:"month"`
	Selected time.Time `json:"selected"`
}

func NewPlanner(now time.Time) Planner {
	return Planner{Month: MonthOf(now), Selected: Midnight(now)}
}

func (p *Planner) PrevMonth() { p.Month = p.Month.Prev() }
func (p *Planner) NextMonth() { p.Month = p.Month.Next() }

// Select selects a day of the displayed month.
func (p *Planner) Select(day int) {
	p.Selected = p.Month.Date(day)
}

// IsToday reports whether day of the displayed month is the real current date.
func (p Planner) IsToday(day int, now time.Time) bool {
	return p.Month == MonthOf(now) && day == now.Day()
}

// Grid computes the month grid: leading blanks then one cell per day.
func (p Planner) Grid(tasks []Task, now time.Time) []Cell {
	counts := p.Month.TasksByDay(tasks)
	blanks := p.Month.FirstWeekday()
	days := p.Month.Days()
	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, Cell{
			Day:        day,
			Count:      counts[day],
			IsToday:    p.IsToday(day, now),
			IsSelected: p.Month.Date(day).Equal(Midnight(p.Selected)),
		})
	}
	return cells
}

// SelectedTasks returns the tasks due on the selected day.
func (p Planner) SelectedTasks(tasks []Task) []Task {
	return TasksOnDate(p.Selected, tasks)
}
