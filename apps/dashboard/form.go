package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/tasktutor/core/task"
)

const (
	formTitle = iota
	formDueDate
	formPriority
	formSubject
	formCourse
)

var formLabels = []string{"Title", "Due date", "Priority", "Subject", "Course"}

// taskForm adds a task, or edits one when editID is set.
type taskForm struct {
	editID int
	inputs []textinput.Model
	focus  int
}

func newTaskForm(t *task.Task, now time.Time) taskForm {
	f := taskForm{inputs: make([]textinput.Model, len(formLabels))}
	for i, label := range formLabels {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-9s> ", label)
		ti.CharLimit = 120
		f.inputs[i] = ti
	}
	f.inputs[formDueDate].Placeholder = "YYYY-MM-DD"
	f.inputs[formPriority].Placeholder = "high, medium or low"

	if t != nil {
		f.editID = t.ID
		f.inputs[formTitle].SetValue(t.Title)
		f.inputs[formDueDate].SetValue(t.DueDate)
		f.inputs[formPriority].SetValue(string(t.Priority))
		f.inputs[formSubject].SetValue(t.Subject)
		f.inputs[formCourse].SetValue(t.Course)
	} else {
		f.inputs[formDueDate].SetValue(task.FormatDate(now))
		f.inputs[formPriority].SetValue(string(task.PriorityMedium))
	}
	f.inputs[formTitle].Focus()
	return f
}

func (f *taskForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f taskForm) fields() task.Fields {
	return task.Fields{
		Title:    f.inputs[formTitle].Value(),
		DueDate:  f.inputs[formDueDate].Value(),
		Priority: task.Priority(f.inputs[formPriority].Value()),
		Subject:  f.inputs[formSubject].Value(),
		Course:   f.inputs[formCourse].Value(),
	}
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.list.form
	switch msg.String() {
	case "esc":
		m.list.form = nil
		return m.succeed("Cancelled"), nil
	case "tab", "down":
		f.move(1)
		return m, nil
	case "shift+tab", "up":
		f.move(-1)
		return m, nil
	case "enter":
		var t task.Task
		var err error
		if f.editID != 0 {
			t, err = m.tasks.Update(m.ctx, m.userID, f.editID, f.fields())
		} else {
			t, err = m.tasks.Create(m.ctx, m.userID, f.fields())
		}
		if err != nil {
			// the form stays open so the input can be fixed
			return m.fail("save", err), nil
		}
		m.list.form = nil
		m = m.reload()
		m.list.cursor = indexOf(m.list.visible, t.ID, m.list.cursor)
		return m.succeed(fmt.Sprintf("Saved %q", t.Title)), nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func indexOf(tasks []task.Task, id, fallback int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return fallback
}

func (f taskForm) view() string {
	var b strings.Builder
	title := "Add task"
	if f.editID != 0 {
		title = fmt.Sprintf("Edit task #%d", f.editID)
	}
	b.WriteString(accentStyle.Render(title))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab next • enter save • esc cancel"))
	return boxStyle.Render(b.String())
}
