package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/core/study"
	"github.com/trezcool/tasktutor/core/user"
	"github.com/trezcool/tasktutor/fs"
	"github.com/trezcool/tasktutor/services/email"
	"github.com/trezcool/tasktutor/services/logger"
	"github.com/trezcool/tasktutor/storage"
	"github.com/trezcool/tasktutor/storage/database"
)

var logger core.Logger

func main() {
	logger = logsvc.NewConsoleLogger("ADMIN", os.Stderr, false)

	conf, err := core.NewConfig()
	errAndDie(err)
	if conf.Debug {
		logger = logsvc.NewConsoleLogger("ADMIN", os.Stderr, true)
	}
	ctx := context.Background()

	cli := &commandLine{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		openDB: func(ctx context.Context) (*sqlx.DB, error) {
			return database.Open(ctx, conf.Store.URL)
		},
	}

	// migrations talk to the database directly; everything else goes through the record store
	if len(os.Args) < 2 || os.Args[1] != "migrate" {
		store, err := storage.Open(ctx, conf)
		errAndDie(err)
		defer store.Close()
		errAndDie(storage.Ping(ctx, store))

		var mailSvc core.EmailService
		templates := core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
		if conf.SendgridAPIKey == "" {
			mailSvc = emailsvc.NewConsoleService(conf, templates, log.New(os.Stdout, "", 0), logger)
		} else {
			mailSvc = emailsvc.NewSendgridService(conf, templates, logger)
		}

		validate, translator := core.NewValidator()
		cli.validate = validate
		cli.usrSvc = user.NewService(store, validate)
		cli.studySvc = study.NewService(store, cli.usrSvc, validate)
		cli.authSvc = auth.NewService(store, mailSvc, validate, translator, conf)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal("admin setup failed", err)
	}
}
