package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/fs"
	"github.com/trezcool/tasktutor/services/email"
	"github.com/trezcool/tasktutor/storage/database/inmem"
)

// Env bundles the dependencies shared by service, CLI and API tests.
type Env struct {
	Conf       *core.Config
	Store      *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator
	Mail       *emailsvc.ConsoleServiceMock
	Auth       *auth.Service
}

func Conf() *core.Config {
	return &core.Config{
		Env:                       "TEST",
		AppName:                   "Task Tutor",
		TestMode:                  true,
		SecretKey:                 "test-secret",
		FrontendBaseURL:           "http://tasktutor.test",
		DefaultFromEmail:          mail.Address{Name: "Task Tutor", Address: "noreply@tasktutor.test"},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Store:                     core.StoreConfig{URL: "mem://", Key: "test"},
		Server: core.ServerConfig{
			Address:                   ":0",
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	conf := Conf()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("opening store failed: %v", err)
	}
	validate, translator := core.NewValidator()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf))
	return &Env{
		Conf:       conf,
		Store:      db,
		Validate:   validate,
		Translator: translator,
		Mail:       mailSvc,
		Auth:       auth.NewService(db, mailSvc, validate, translator, conf),
	}
}

func CreateAccount(t *testing.T, svc *auth.Service, email, pwd string, isActive bool) auth.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := svc.SignUp(ctx, auth.NewAccount{Email: email, Password: pwd, PasswordConfirm: pwd})
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	if !isActive {
		if acc, err = svc.SetActive(ctx, acc.ID, false); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	return acc
}
