package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trezcool/tasktutor/apps/api/echo"
	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/core/task"
	"github.com/trezcool/tasktutor/fs"
	"github.com/trezcool/tasktutor/services/email"
	"github.com/trezcool/tasktutor/services/logger"
	"github.com/trezcool/tasktutor/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up logger
	var logger core.Logger
	if conf.RollbarToken != "" {
		rl := logsvc.NewRollbarLogger(log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
		rl.Enable(!conf.Debug)
		logger = rl
	} else {
		logger = logsvc.NewConsoleLogger("API", os.Stdout, conf.Debug)
	}

	// set up record store
	ctx := context.Background()
	store, err := storage.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening record store: %v", err), err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close record store", err)
		}
	}()
	if err := storage.Ping(ctx, store); err != nil {
		logger.Fatal(fmt.Sprintf("record store unreachable: %v", err), err)
	}

	// set up services
	templates := core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	var mailSvc core.EmailService
	if conf.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, templates, log.New(os.Stdout, "MAIL : ", log.LstdFlags), logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, templates, logger)
	}
	validate, translator := core.NewValidator()
	authSvc := auth.NewService(store, mailSvc, validate, translator, conf)
	taskSvc := task.NewService(task.NewRepository(store), validate, task.WithSeed(task.DefaultSeed()))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:    conf.Server.Address,
			AppName:    conf.AppName,
			Debug:      conf.Debug,
			TestMode:   conf.TestMode,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			AuthSvc:    authSvc,
			TaskSvc:    taskSvc,
		},
		func() {
			select {
			case shutdown <- syscall.SIGTERM:
			default:
			}
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
