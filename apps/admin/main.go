package main

import (
	"log"
	"os"

	"github.com/riyazhq/riyaz/core"
	"github.com/riyazhq/riyaz/core/lesson"
	"github.com/riyazhq/riyaz/core/student"
	"github.com/riyazhq/riyaz/storage/database"
	"github.com/riyazhq/riyaz/storage/database/dummy"
	"github.com/riyazhq/riyaz/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up repositories
	var (
		studentRepo student.Repository
		lessonRepo  lesson.Repository
	)
	if core.Conf.Debug {
		db, err := dummydb.Open()
		errAndDie(err)
		studentRepo = dummydb.NewStudentRepository(db)
		lessonRepo = dummydb.NewLessonRepository(db)
	} else {
		db, err := database.Open(core.Conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()
		errAndDie(db.Ping())
		studentRepo = sqlxrepos.NewStudentRepository(db)
		lessonRepo = sqlxrepos.NewLessonRepository(db)
	}

	// start CLI
	cli := commandLine{
		lessonSvc: lesson.NewService(lessonRepo, studentRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
