package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/tasktutor/core/auth"
	"github.com/trezcool/tasktutor/core/study"
	"github.com/trezcool/tasktutor/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	in  *bufio.Reader
	out io.Writer

	openDB   func(ctx context.Context) (*sqlx.DB, error)
	validate *validator.Validate
	usrSvc   *user.Service
	studySvc *study.Service
	authSvc  *auth.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  users                     - manage public user profiles (interactive)")
	fmt.Fprintln(cli.out, "  progress                  - log, view and delete study activity (interactive)")
	fmt.Fprintln(cli.out, "  sessions                  - log, view and delete study sessions (interactive)")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]    - run database migrations (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL      - create an account or activate an existing one")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset an account's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserEmail := addUserCmd.String("email", "", "The account's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The account's email. The password will be prompted next.")

	switch args[1] {
	case "users":
		return cli.usersMenu(ctx)
	case "progress":
		return cli.progressMenu(ctx)
	case "sessions":
		return cli.sessionsMenu(ctx)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, *addUserEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// ask prints q and reads one trimmed line. A last line without newline is still returned.
func (cli *commandLine) ask(q string) (string, error) {
	fmt.Fprint(cli.out, q)
	line, err := cli.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askInt reads a whole number; blank input reads as 0. ok is false when the input is not a number.
func (cli *commandLine) askInt(q string) (n int, ok bool, err error) {
	s, err := cli.ask(q)
	if err != nil || s == "" {
		return 0, err == nil, err
	}
	n, convErr := strconv.Atoi(s)
	return n, convErr == nil, nil
}

// askIndex reads a row number in [0, n). ok is false when the user cancelled or the index is invalid.
func (cli *commandLine) askIndex(n int, cancelMsg string) (idx int, ok bool, err error) {
	s, err := cli.ask("\nEnter row # to delete (or Enter to cancel): ")
	if err != nil {
		return 0, false, err
	}
	if s == "" {
		fmt.Fprintln(cli.out, cancelMsg)
		return 0, false, nil
	}
	idx, convErr := strconv.Atoi(s)
	if convErr != nil || idx < 0 || idx >= n {
		fmt.Fprintln(cli.out, " Invalid index.")
		return 0, false, nil
	}
	return idx, true, nil
}

type menuItem struct {
	label  string
	action func(ctx context.Context) error
}

// menu loops over the items until Exit is chosen or the input ends.
// Actions only return input errors; store errors are reported to the user.
func (cli *commandLine) menu(ctx context.Context, title string, items []menuItem, invalidMsg string) error {
	exit := strconv.Itoa(len(items) + 1)
	for {
		fmt.Fprintf(cli.out, "\n=== %s ===\n", title)
		for i, it := range items {
			fmt.Fprintf(cli.out, "%d) %s\n", i+1, it.label)
		}
		fmt.Fprintf(cli.out, "%s) Exit\n", exit)

		choice, err := cli.ask("Choose an option: ")
		if err != nil {
			return ignoreEOF(err)
		}
		if choice == exit {
			return nil
		}
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(items) {
			fmt.Fprintln(cli.out, invalidMsg)
			continue
		}
		if err := items[n-1].action(ctx); err != nil {
			return ignoreEOF(err)
		}
	}
}

// cause is the record store's own message, without the context added on the way up.
func cause(err error) error {
	return errors.Cause(err)
}

func ignoreEOF(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}
