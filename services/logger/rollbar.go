package logsvc

import (
	"log"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
)

// RollbarLogger reports to Rollbar and echoes every entry to std.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Address)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetServerRoot("github.com/trezcool/tasktutor")
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// person is the Rollbar person of a signed-in account.
type person struct {
	id, username, email string
}

// personOf reads the account behind an auth.Account, *auth.Account or auth.Session argument.
// Accounts have no username: the local part of the email stands in for it.
func personOf(arg interface{}) (person, bool) {
	var acc auth.Account
	switch v := arg.(type) {
	case auth.Account:
		acc = v
	case *auth.Account:
		if v == nil {
			return person{}, false
		}
		acc = *v
	case auth.Session:
		acc = v.Account
	default:
		return person{}, false
	}
	username := acc.Email
	if at := strings.LastIndex(acc.Email, "@"); at > 0 {
		username = acc.Email[:at]
	}
	return person{id: acc.ID, username: username, email: acc.Email}, true
}

// prepare sets the Rollbar person from the first account-like argument and drops every
// account-like argument from what gets reported. Errors and extra maps are passed through.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var who *person
	reported := make([]interface{}, 0, len(args)+1)
	reported = append(reported, msg)
	for _, arg := range args {
		if p, ok := personOf(arg); ok {
			if who == nil {
				who = &p
			}
			continue
		}
		reported = append(reported, arg)
	}
	if who != nil {
		rollbar.SetPerson(who.id, who.username, who.email)
	} else {
		rollbar.ClearPerson()
	}
	return reported
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	rollbar.Log(level, l.prepare(msg, args)...)
	l.std.Printf("[%s] %s", strings.ToUpper(level), msg)
	for _, arg := range args {
		if p, ok := personOf(arg); ok {
			l.std.Printf("  account=%s", p.id)
			continue
		}
		l.std.Printf("  %+v", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
