package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
)

type signInState struct {
	inputs []textinput.Model
	focus  int
	signUp bool
}

func newSignInState() signInState {
	inputs := make([]textinput.Model, 3)
	for i, label := range []string{"Email", "Password", "Confirm"} {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-9s> ", label)
		ti.CharLimit = 128
		if i != fieldEmail {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	inputs[fieldEmail].Focus()
	return signInState{inputs: inputs}
}

func (s signInState) fields() int {
	if s.signUp {
		return 3
	}
	return 2
}

func (s signInState) value(i int) string {
	return s.inputs[i].Value()
}

func (s signInState) focused(i int) signInState {
	s.focus = (i + s.fields()) % s.fields()
	for j := range s.inputs {
		if j == s.focus {
			s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	return s
}

// updateSignIn: tab/shift+tab move between fields, enter submits,
// ctrl+n switches between sign in and sign up, ctrl+r emails a password reset link.
func (m model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.signIn = m.signIn.focused(m.signIn.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.signIn = m.signIn.focused(m.signIn.focus - 1)
		return m, nil
	case "ctrl+n":
		m.signIn.signUp = !m.signIn.signUp
		m.signIn = m.signIn.focused(fieldEmail)
		m.status, m.errMsg = "", ""
		return m, nil
	case "ctrl+r":
		return m.requestPasswordReset(), nil
	case "enter":
		if m.signIn.focus < m.signIn.fields()-1 {
			m.signIn = m.signIn.focused(m.signIn.focus + 1)
			return m, nil
		}
		return m.submitSignIn(), nil
	}

	var cmd tea.Cmd
	i := m.signIn.focus
	m.signIn.inputs[i], cmd = m.signIn.inputs[i].Update(msg)
	return m, cmd
}

func (m model) submitSignIn() model {
	email := strings.TrimSpace(m.signIn.value(fieldEmail))
	pwd := m.signIn.value(fieldPassword)

	var sess auth.Session
	var err error
	if m.signIn.signUp {
		sess, err = m.client.SignUp(m.ctx, auth.NewAccount{Email: email, Password: pwd, PasswordConfirm: m.signIn.value(fieldConfirm)})
	} else {
		sess, err = m.client.SignIn(m.ctx, email, pwd)
	}
	if err != nil {
		m.status = ""
		m.errMsg = m.describeAuthError(err)
		return m
	}
	m = m.onSignedIn(sess)
	return m.succeed("Welcome " + sess.Account.Email)
}

func (m model) requestPasswordReset() model {
	email := strings.TrimSpace(m.signIn.value(fieldEmail))
	if email == "" {
		m.errMsg = "Enter your email first"
		return m
	}
	if err := m.client.ResetPassword(m.ctx, email); err != nil {
		return m.fail("password reset", err)
	}
	return m.succeed("If an account exists for " + email + ", a password reset email is on its way.")
}

func (m model) describeAuthError(err error) string {
	if m.translator != nil {
		err = core.ValidationErrorFrom(err, m.translator)
	}
	if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
		return vErr.Error()
	}
	if core.IsValidationError(err) {
		return "please fill in a valid email and password"
	}
	return err.Error()
}

func (m model) viewSignIn() string {
	var b strings.Builder
	title := "Sign in"
	if m.signIn.signUp {
		title = "Create an account"
	}
	b.WriteString(titleStyle.Render("Task Tutor") + "  " + accentStyle.Render(title))
	b.WriteString("\n\n")
	for i := 0; i < m.signIn.fields(); i++ {
		b.WriteString(m.signIn.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab next field • enter submit • ctrl+n sign in/sign up • ctrl+r forgot password • esc quit"))
	return b.String()
}
