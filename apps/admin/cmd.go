package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	echoapi "github.com/riyazhq/riyaz/apps/api/echo"
	"github.com/riyazhq/riyaz/core/lesson"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	lessonSvc lesson.Service
	out       io.Writer // defaults to os.Stdout
}

func (cli *commandLine) output() io.Writer {
	if cli.out != nil {
		return cli.out
	}
	return os.Stdout
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  bills -teacher ID - print a teacher's per-student monthly bills")
	fmt.Println("  mktoken -id ID [-name NAME] [-email EMAIL] [-teacher] [-student] - mint a signed API token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	billsCmd := flag.NewFlagSet("bills", flag.ExitOnError)
	billsTeacher := billsCmd.String("teacher", "", "The teacher's ID.")

	mkTokenCmd := flag.NewFlagSet("mktoken", flag.ExitOnError)
	mkTokenID := mkTokenCmd.String("id", "", "The subject's ID.")
	mkTokenName := mkTokenCmd.String("name", "", "The subject's display name.")
	mkTokenEmail := mkTokenCmd.String("email", "", "The subject's email.")
	mkTokenTeacher := mkTokenCmd.Bool("teacher", false, "Grant teacher access.")
	mkTokenStudent := mkTokenCmd.Bool("student", false, "Grant student access.")

	switch args[1] {
	case "bills":
		if err := billsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *billsTeacher == "" {
			billsCmd.Usage()
			return errHelp
		}
		return cli.printBills(*billsTeacher)
	case "mktoken":
		if err := mkTokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *mkTokenID == "" {
			mkTokenCmd.Usage()
			return errHelp
		}
		return cli.makeToken(*mkTokenID, *mkTokenName, *mkTokenEmail, *mkTokenTeacher, *mkTokenStudent)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) printBills(teacherID string) error {
	report, err := cli.lessonSvc.MonthlyBills(context.Background(), teacherID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.output(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MONTH\tSTUDENT\tLESSONS\tTOTAL\tPAID")
	for _, b := range report.Bills {
		paid := "no"
		if b.AllPaid {
			paid = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", b.Month, b.StudentName, b.LessonCount, b.TotalFee, paid)
	}
	_, _ = fmt.Fprintf(w, "\ncollected: %d\toutstanding: %d\tstudents: %d\n",
		report.Summary.TotalCollected, report.Summary.TotalOutstanding, report.Summary.StudentCount)
	if report.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "skipped %d lessons with unreadable dates\n", report.Skipped)
	}
	return w.Flush()
}

func (cli *commandLine) makeToken(id, name, email string, isTeacher, isStudent bool) error {
	token, err := echoapi.GenerateToken(echoapi.GetClaims(id, name, email, isTeacher, isStudent))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.output(), token)
	return nil
}
