package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core/task"
)

type plannerState struct {
	planner  task.Planner
	cursor   int        // task of the selected day
	carrying *task.Task // picked up, waiting to be dropped on a day
}

func newPlannerState(now time.Time) plannerState {
	return plannerState{planner: task.NewPlanner(now)}
}

// moveSelection shifts the selected day by delta days, staying inside the displayed month.
// A selection outside the displayed month restarts from day 1.
func (s *plannerState) moveSelection(delta int) {
	p := &s.planner
	day := 1
	if p.Month.Contains(p.Selected) {
		day = p.Selected.Day() + delta
	}
	if day < 1 || day > p.Month.Days() {
		return
	}
	p.Select(day)
	s.cursor = 0
}

func (m model) updatePlanner(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.planner.carrying != nil && msg.String() == "esc" {
		m.planner.carrying = nil
		return m.succeed("Move cancelled"), nil
	}
	if m, cmd, ok := m.updateCommon(msg); ok {
		return m, cmd
	}

	p := &m.planner
	dayTasks := p.planner.SelectedTasks(m.list.tasks)
	switch {
	case key.Matches(msg, keys.Left):
		p.moveSelection(-1)
	case key.Matches(msg, keys.Right):
		p.moveSelection(1)
	case key.Matches(msg, keys.Up):
		p.moveSelection(-7)
	case key.Matches(msg, keys.Down):
		p.moveSelection(7)
	case key.Matches(msg, keys.PrevMonth):
		p.planner.PrevMonth()
	case key.Matches(msg, keys.NextMonth):
		p.planner.NextMonth()
	case key.Matches(msg, keys.Today):
		p.planner = task.NewPlanner(m.now())
		p.cursor = 0
	case key.Matches(msg, keys.PrevTask):
		p.cursor = clampCursor(p.cursor-1, len(dayTasks))
	case key.Matches(msg, keys.NextTask):
		p.cursor = clampCursor(p.cursor+1, len(dayTasks))
	case key.Matches(msg, keys.PickUp):
		if len(dayTasks) == 0 {
			m.status = "No task on this day"
			break
		}
		t := dayTasks[clampCursor(p.cursor, len(dayTasks))]
		p.carrying = &t
		m.status, m.errMsg = fmt.Sprintf("Moving %q: pick a day and press enter (esc cancels)", t.Title), ""
	case key.Matches(msg, keys.Drop):
		return m.dropCarried(), nil
	case key.Matches(msg, keys.Export):
		return m.exportCalendar(), nil
	}
	return m, nil
}

// dropCarried drops the carried task on the selected day of the displayed month.
func (m model) dropCarried() model {
	p := &m.planner
	if p.carrying == nil {
		return m
	}
	if !p.planner.Month.Contains(p.planner.Selected) {
		return m.fail("move", errors.New("select a day of "+p.planner.Month.String()))
	}
	carried := *p.carrying
	p.carrying = nil
	drop := task.ParseDrop(fmt.Sprint(carried.ID), p.planner.Selected.Day())
	t, err := m.tasks.MoveTaskToDay(m.ctx, m.userID, p.planner.Month, drop)
	if err != nil {
		return m.fail("move", err)
	}
	m = m.reload()
	return m.succeed(fmt.Sprintf("Moved %q to %s", t.Title, t.Due().Format("Mon Jan 2")))
}

func (m model) exportCalendar() model {
	ics := task.BuildCalendarICS(m.list.tasks, m.userID, m.now())
	if err := os.WriteFile(m.exportPath, []byte(ics), 0o644); err != nil {
		return m.fail("export", err)
	}
	return m.succeed(fmt.Sprintf("Exported %d tasks to %s", len(m.list.tasks), m.exportPath))
}

func (m model) viewPlanner() string {
	var b strings.Builder
	p := m.planner.planner
	now := m.now()

	b.WriteString(titleStyle.Render(p.Month.String()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  Su   Mo   Tu   We   Th   Fr   Sa"))
	b.WriteString("\n")
	for i, c := range p.Grid(m.list.tasks, now) {
		cell := "     "
		if c.Day != 0 {
			cell = fmt.Sprintf(" %2d", c.Day)
			if c.Count > 0 {
				cell += fmt.Sprintf("•%d", c.Count)
			} else {
				cell += "  "
			}
			switch {
			case c.IsSelected:
				cell = selectedStyle.Render(cell)
			case c.IsToday:
				cell = todayStyle.Render(cell)
			case c.Count > 0:
				cell = accentStyle.Render(cell)
			}
		}
		b.WriteString(cell)
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	dayTasks := p.SelectedTasks(m.list.tasks)
	b.WriteString(accentStyle.Render(p.Selected.Format("Monday, January 2")))
	b.WriteString("\n")
	if len(dayTasks) == 0 {
		b.WriteString(mutedStyle.Render("Nothing due."))
	}
	for i, t := range dayTasks {
		prefix := "  "
		if i == clampCursor(m.planner.cursor, len(dayTasks)) {
			prefix = "> "
		}
		title := t.Title
		if t.IsCompleted() {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", prefix, title,
			priorityStyles[string(t.Priority)].Render(string(t.Priority)),
			mutedStyle.Render(task.DueLabel(t, now)))
	}
	if c := m.planner.carrying; c != nil {
		b.WriteString("\n")
		b.WriteString(pendingStyle.Render("Carrying: " + c.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}
