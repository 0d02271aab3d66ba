package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/riyazhq/riyaz/apps/api/echo"
	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/reminder"
	"github.com/riyazhq/riyaz/core/student"
	"github.com/riyazhq/riyaz/services/email"
	"github.com/riyazhq/riyaz/services/logger"
	"github.com/riyazhq/riyaz/storage/database"
	"github.com/riyazhq/riyaz/storage/database/dummy"
	"github.com/riyazhq/riyaz/storage/database/sqlx"
)

func main() {
	// set up logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}
	logger.Enable(!core.Conf.Debug)

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	// set up repositories; an in-memory store stands in for Postgres in DEV
	var (
		studentRepo  student.Repository
		lessonRepo   lesson.Repository
		reminderRepo reminder.Repository
	)
	if core.Conf.Debug {
		db, err := dummydb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		studentRepo = dummydb.NewStudentRepository(db)
		lessonRepo = dummydb.NewLessonRepository(db)
		reminderRepo = dummydb.NewReminderRepository(db)
	} else {
		db, err := setUpDB()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() { _ = db.Close() }()
		studentRepo = sqlxrepos.NewStudentRepository(db)
		lessonRepo = sqlxrepos.NewLessonRepository(db)
		reminderRepo = sqlxrepos.NewReminderRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	studentSvc := student.NewService(studentRepo)
	lessonSvc := lesson.NewService(lessonRepo, studentRepo)
	reminderSvc := reminder.NewService(reminderRepo, mailSvc)

	// start API server
	server := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Server.Address(),
			Logger:      logger,
			StudentSvc:  studentSvc,
			LessonSvc:   lessonSvc,
			ReminderSvc: reminderSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	select {
	case err := <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
