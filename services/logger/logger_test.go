package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
)

func TestRollbarLogger_prepare(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})
	l.Enable(false)

	err := errors.New("boom")
	acc := auth.Account{ID: "a1", Email: "ada@test.io"}
	args := l.prepare("failed", []interface{}{err, acc, map[string]interface{}{"k": "v"}, auth.Account{ID: "a2"}})

	assert.Equal(t, []interface{}{"failed", err, map[string]interface{}{"k": "v"}}, args)

	l.Error("failed", err, acc)
	assert.Contains(t, buf.String(), "[ERROR] failed\n  boom\n  account=a1\n")
	assert.NotContains(t, buf.String(), "ada@test.io")
}

func Test_personOf(t *testing.T) {
	acc := auth.Account{ID: "a1", Email: "ada.lovelace@test.io"}
	want := person{id: "a1", username: "ada.lovelace", email: "ada.lovelace@test.io"}
	tests := []struct {
		name   string
		arg    interface{}
		want   person
		wantOk bool
	}{
		{name: "account", arg: acc, want: want, wantOk: true},
		{name: "account pointer", arg: &acc, want: want, wantOk: true},
		{name: "session", arg: auth.Session{AccessToken: "t", Account: acc}, want: want, wantOk: true},
		{name: "nil pointer", arg: (*auth.Account)(nil)},
		{name: "no email", arg: auth.Account{ID: "a2"}, want: person{id: "a2"}, wantOk: true},
		{name: "other", arg: "a1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := personOf(tt.arg)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger("test", &buf, false)

	l.Debug("hidden")
	l.Info("signed in", auth.Account{ID: "a1"})
	l.Error("failed", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "signed in account=a1")
	assert.Contains(t, out, "failed | boom")

	buf.Reset()
	l.Enable(false)
	l.Error("silenced")
	assert.Empty(t, buf.String())
}
