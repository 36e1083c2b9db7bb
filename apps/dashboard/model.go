package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	ut "github.com/go-playground/universal-translator"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/core/task"
	"github.com/trezcool/tasktutor/storage"
)

type page int

const (
	pageSignIn page = iota
	pageTasks
	pagePlanner
)

// deps are the services the dashboard talks to.
type deps struct {
	client     *auth.Client
	translator ut.Translator
	tasks      *task.Service
	store      core.RecordStore
	now        func() time.Time
	exportPath string
}

// model is the whole dashboard state. Key events are applied one at a time, in order,
// and every service call they trigger completes before the next event is handled.
type model struct {
	deps
	ctx  context.Context
	page page
	help help.Model

	userID   string
	email    string
	dbStatus string
	status   string
	errMsg   string

	signIn  signInState
	list    tasksState
	planner plannerState
}

func newModel(ctx context.Context, d deps) model {
	if d.now == nil {
		d.now = time.Now
	}
	return model{
		deps:    d,
		ctx:     ctx,
		page:    pageSignIn,
		help:    help.New(),
		signIn:  newSignInState(),
		list:    newTasksState(),
		planner: newPlannerState(d.now()),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.page {
		case pageSignIn:
			return m.updateSignIn(msg)
		case pageTasks:
			return m.updateTasks(msg)
		case pagePlanner:
			return m.updatePlanner(msg)
		}
	}
	return m, nil
}

// updateCommon handles the keys shared by the signed-in pages. handled is false for any other key.
func (m model) updateCommon(msg tea.KeyMsg) (_ model, cmd tea.Cmd, handled bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, keys.SwitchPage):
		if m.page == pageTasks {
			m.page = pagePlanner
		} else {
			m.page = pageTasks
		}
		m.status, m.errMsg = "", ""
		return m, nil, true
	case key.Matches(msg, keys.SignOut):
		return m.signOut(), nil, true
	}
	return m, nil, false
}

// onSignedIn loads the user's tasks and checks the record store.
func (m model) onSignedIn(sess auth.Session) model {
	m.userID = sess.Account.ID
	m.email = sess.Account.Email
	m.page = pageTasks
	m.signIn = newSignInState()
	m.list = newTasksState()
	m.planner = newPlannerState(m.now())

	if err := storage.Ping(m.ctx, m.store); err != nil {
		m.dbStatus = "DB error: " + err.Error()
	} else {
		m.dbStatus = "DB connected"
	}
	return m.reload()
}

func (m model) signOut() model {
	m.tasks.Forget(m.userID)
	m.client.SignOut()
	m.userID, m.email, m.dbStatus = "", "", ""
	m.page = pageSignIn
	m.signIn = newSignInState()
	m.status, m.errMsg = "Signed out", ""
	return m
}

// reload refreshes the task snapshot shown by both pages.
func (m model) reload() model {
	tasks, err := m.tasks.Tasks(m.ctx, m.userID)
	if err != nil {
		m.errMsg = fmt.Sprintf("loading tasks failed: %v", err)
		return m
	}
	m.list = m.list.withTasks(tasks, m.now())
	return m
}

func (m model) fail(action string, err error) model {
	m.status = ""
	if m.translator != nil {
		err = core.ValidationErrorFrom(err, m.translator)
	}
	m.errMsg = fmt.Sprintf("%s failed: %v", action, err)
	return m
}

func (m model) succeed(status string) model {
	m.status, m.errMsg = status, ""
	return m
}

func (m model) View() string {
	if m.page == pageSignIn {
		return m.viewSignIn()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	switch m.page {
	case pageTasks:
		b.WriteString(m.viewTasks())
	case pagePlanner:
		b.WriteString(m.viewPlanner())
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	if m.page == pageTasks {
		b.WriteString(m.help.ShortHelpView(keys.tasksHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(keys.plannerHelp()))
	}
	return b.String()
}

func (m model) viewHeader() string {
	pending, completed := task.Counts(m.list.tasks)
	tabs := []string{"Tasks", "Planner"}
	active := 0
	if m.page == pagePlanner {
		active = 1
	}
	for i, t := range tabs {
		if i == active {
			tabs[i] = selectedStyle.Render(" " + t + " ")
		} else {
			tabs[i] = mutedStyle.Render(" " + t + " ")
		}
	}

	db := successStyle.Render(m.dbStatus)
	if m.dbStatus != "DB connected" {
		db = errorStyle.Render(m.dbStatus)
	}
	return fmt.Sprintf("%s  %s   %s %d pending  %s %d completed   %s\n%s",
		titleStyle.Render("Task Tutor"), strings.Join(tabs, ""),
		pendingStyle.Render("•"), pending,
		successStyle.Render("✔"), completed,
		db,
		mutedStyle.Render("signed in as "+m.email),
	)
}

func (m model) viewStatus() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	return m.status
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
