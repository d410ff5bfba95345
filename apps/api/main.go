package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasa/backoffice/apps/api/echo"
	"github.com/darasa/backoffice/core"
	"github.com/darasa/backoffice/core/assignment"
	"github.com/darasa/backoffice/core/cvrequest"
	"github.com/darasa/backoffice/core/session"
	"github.com/darasa/backoffice/core/user"
	emailsvc "github.com/darasa/backoffice/services/email"
	sendgridmail "github.com/darasa/backoffice/services/email/sendgrid"
	"github.com/darasa/backoffice/services/filestore"
	logsvc "github.com/darasa/backoffice/services/logger"
	"github.com/darasa/backoffice/storage/database"
	pgrepos "github.com/darasa/backoffice/storage/database/pg"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}
	files := filestore.NewS3Store(conf)
	activity := pgrepos.NewActivityLog(dbx)

	sessionSvc := session.NewService(pgrepos.NewSessionRepository(dbx), mailSvc, activity, nil /* default policy */)
	assignmentSvc := assignment.NewService(pgrepos.NewAssignmentRepository(dbx), files, mailSvc, activity)
	cvRequestSvc := cvrequest.NewService(pgrepos.NewCVRequestRepository(dbx), files, mailSvc, activity)
	usrSvc := user.NewService(pgrepos.NewUserRepository(dbx))

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:          conf.Server.Address(),
		Conf:          conf,
		Logger:        logger,
		Shutdown:      func() { shutdownCh <- syscall.SIGTERM },
		SessionSvc:    sessionSvc,
		AssignmentSvc: assignmentSvc,
		CVRequestSvc:  cvRequestSvc,
		UserSvc:       usrSvc,
	})

	serverErrs := make(chan error, 1)
	go func() {
		serverErrs <- app.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrs:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdownCh:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		if err = app.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
