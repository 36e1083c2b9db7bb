package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/tasktutor/core/task"
)

var (
	statusFilters   = []string{task.FilterAll, string(task.StatusPending), string(task.StatusCompleted)}
	priorityFilters = []string{task.FilterAll, string(task.PriorityHigh), string(task.PriorityMedium), string(task.PriorityLow)}
)

type tasksState struct {
	tasks    []task.Task // full snapshot
	visible  []task.Task // tasks matching criteria
	criteria task.Criteria
	cursor   int

	searching bool
	search    textinput.Model
	form      *taskForm
	pendDel   *task.Task
}

func newTasksState() tasksState {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title, subject or course"
	ti.CharLimit = 100
	return tasksState{search: ti}
}

func (s tasksState) withTasks(tasks []task.Task, now time.Time) tasksState {
	s.tasks = tasks
	s.visible = s.criteria.Apply(tasks, now)
	s.cursor = clampCursor(s.cursor, len(s.visible))
	return s
}

func (s tasksState) selected() (task.Task, bool) {
	if len(s.visible) == 0 {
		return task.Task{}, false
	}
	return s.visible[s.cursor], true
}

// cycle returns the value after cur in values, wrapping around. Empty reads as "all".
func cycle(values []string, cur string) string {
	if cur == "" {
		cur = task.FilterAll
	}
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func dueFilters() []string {
	res := make([]string, 0, len(task.DueBuckets))
	for _, b := range task.DueBuckets {
		res = append(res, string(b))
	}
	return res
}

func (m model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.list.pendDel != nil:
		return m.updateDeleteConfirm(msg.String()), nil
	case m.list.form != nil:
		return m.updateForm(msg)
	case m.list.searching:
		return m.updateSearch(msg)
	}

	if m, cmd, ok := m.updateCommon(msg); ok {
		return m, cmd
	}

	now := m.now()
	switch {
	case key.Matches(msg, keys.Up):
		m.list.cursor = clampCursor(m.list.cursor-1, len(m.list.visible))
	case key.Matches(msg, keys.Down):
		m.list.cursor = clampCursor(m.list.cursor+1, len(m.list.visible))
	case key.Matches(msg, keys.Search):
		m.list.searching = true
		m.list.search.Focus()
		m.status = "Search: type and press enter (esc clears)"
	case key.Matches(msg, keys.FilterStatus):
		m.list.criteria.Status = cycle(statusFilters, m.list.criteria.Status)
		m.list = m.list.withTasks(m.list.tasks, now)
	case key.Matches(msg, keys.FilterPriority):
		m.list.criteria.Priority = cycle(priorityFilters, m.list.criteria.Priority)
		m.list = m.list.withTasks(m.list.tasks, now)
	case key.Matches(msg, keys.FilterSubject):
		subjects := append([]string{task.FilterAll}, task.Subjects(m.list.tasks)...)
		m.list.criteria.Subject = cycle(subjects, m.list.criteria.Subject)
		m.list = m.list.withTasks(m.list.tasks, now)
	case key.Matches(msg, keys.FilterDue):
		m.list.criteria.Due = task.DueBucket(cycle(dueFilters(), string(m.list.criteria.Due)))
		m.list = m.list.withTasks(m.list.tasks, now)
	case key.Matches(msg, keys.ClearFilters):
		m.list.criteria = task.Criteria{}
		m.list.search.SetValue("")
		m.list = m.list.withTasks(m.list.tasks, now)
	case key.Matches(msg, keys.Add):
		f := newTaskForm(nil, now)
		m.list.form = &f
		m.status, m.errMsg = "New task: tab to move, enter to save, esc to cancel", ""
	case key.Matches(msg, keys.Edit):
		t, ok := m.list.selected()
		if !ok {
			m.status = "No task to edit"
			break
		}
		f := newTaskForm(&t, now)
		m.list.form = &f
		m.status, m.errMsg = fmt.Sprintf("Editing %q", t.Title), ""
	case key.Matches(msg, keys.Toggle):
		t, ok := m.list.selected()
		if !ok {
			break
		}
		updated, err := m.tasks.ToggleStatus(m.ctx, m.userID, t.ID)
		if err != nil {
			return m.fail("toggle", err), nil
		}
		m = m.reload().succeed(fmt.Sprintf("%q is now %s", updated.Title, updated.Status))
	case key.Matches(msg, keys.Delete):
		t, ok := m.list.selected()
		if !ok {
			break
		}
		m.list.pendDel = &t
		m.status, m.errMsg = fmt.Sprintf("Delete %q? y/n", t.Title), ""
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.list.searching = false
		m.list.search.Blur()
		m.status = ""
		return m, nil
	case "esc":
		m.list.searching = false
		m.list.search.Blur()
		m.list.search.SetValue("")
		m.list.criteria.Search = ""
		m.list = m.list.withTasks(m.list.tasks, m.now())
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.list.search, cmd = m.list.search.Update(msg)
	m.list.criteria.Search = m.list.search.Value()
	m.list = m.list.withTasks(m.list.tasks, m.now())
	return m, cmd
}

// updateDeleteConfirm resolves the pending deletion: y confirms, n or esc declines.
func (m model) updateDeleteConfirm(k string) model {
	var approve bool
	switch k {
	case "y", "Y":
		approve = true
	case "n", "N", "esc":
	default:
		return m
	}
	t := *m.list.pendDel
	m.list.pendDel = nil
	_, err := m.tasks.Remove(m.ctx, m.userID, t.ID, func(task.Task) bool { return approve })
	switch err {
	case nil:
		return m.reload().succeed(fmt.Sprintf("Deleted %q", t.Title))
	case task.ErrCancelled:
		return m.succeed("Delete cancelled")
	default:
		return m.fail("delete", err)
	}
}

func (m model) viewTasks() string {
	var b strings.Builder
	c := m.list.criteria
	filter := func(label, v string) string {
		if v == "" || v == task.FilterAll {
			return mutedStyle.Render(label + ": all")
		}
		return accentStyle.Render(label + ": " + v)
	}
	b.WriteString(strings.Join([]string{
		filter("status", c.Status),
		filter("priority", c.Priority),
		filter("subject", c.Subject),
		filter("due", string(c.Due)),
		filter("search", c.Search),
	}, "  "))
	b.WriteString("\n")
	if m.list.searching {
		b.WriteString(m.list.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.list.form != nil {
		b.WriteString(m.list.form.view())
		return b.String()
	}

	if len(m.list.visible) == 0 {
		if len(m.list.tasks) == 0 {
			b.WriteString("No tasks yet. Press 'a' to add one.")
		} else {
			b.WriteString("No tasks match the filters.")
		}
		return b.String()
	}

	now := m.now()
	for i, t := range m.list.visible {
		prefix := "  "
		if i == m.list.cursor {
			prefix = selectedStyle.Render("> ")
		}
		box, title := mutedStyle.Render(boxUnchecked), t.Title
		if t.IsCompleted() {
			box, title = successStyle.Render(boxChecked), doneStyle.Render(t.Title)
		}
		meta := t.Subject
		if t.Course != "" {
			meta += " · " + t.Course
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s  %s\n", prefix, box, title,
			priorityStyles[string(t.Priority)].Render(string(t.Priority)),
			mutedStyle.Render(meta),
			task.DueLabel(t, now))
	}
	return strings.TrimRight(b.String(), "\n")
}
