package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/core/task"
	"github.com/trezcool/tasktutor/fs"
	"github.com/trezcool/tasktutor/services/email"
	"github.com/trezcool/tasktutor/services/logger"
	"github.com/trezcool/tasktutor/storage"
)

func main() {
	exportPath := flag.String("export", "tasks.ics", "where the planner writes its .ics export")
	logPath := flag.String("log", "dashboard.log", "log file (the terminal belongs to the dashboard)")
	flag.Parse()

	logFile, err := tea.LogToFile(*logPath, "DASHBOARD")
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger := logsvc.NewConsoleLogger("DASHBOARD", logFile, conf.Debug)

	ctx := context.Background()
	store, err := storage.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening record store: %v", err), err)
	}
	defer store.Close()

	templates := core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	var mailSvc core.EmailService
	if conf.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, templates, log.New(logFile, "MAIL : ", log.LstdFlags), logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, templates, logger)
	}
	validate, translator := core.NewValidator()
	authSvc := auth.NewService(store, mailSvc, validate, translator, conf)
	taskSvc := task.NewService(task.NewRepository(store), validate, task.WithSeed(task.DefaultSeed()))

	client := auth.NewClient(authSvc)
	unsubscribe := client.OnSessionChange(func(event auth.Event, sess *auth.Session) {
		if sess == nil {
			logger.Info(fmt.Sprintf("session %s", event))
			return
		}
		logger.Info(fmt.Sprintf("session %s: %s", event, sess.Account.Email))
	})
	defer unsubscribe()

	m := newModel(ctx, deps{
		client:     client,
		translator: translator,
		tasks:      taskSvc,
		store:      store,
		exportPath: *exportPath,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("dashboard crashed", err)
		os.Exit(1)
	}
}
