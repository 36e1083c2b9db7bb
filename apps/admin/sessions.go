package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tasktutor/core/study"
)

func (cli *commandLine) sessionsMenu(ctx context.Context) error {
	return cli.menu(ctx, "Study Sessions", []menuItem{
		{label: "Log study session", action: cli.logSession},
		{label: "View sessions", action: cli.viewSessions},
		{label: "Delete study session", action: cli.deleteSession},
	}, "Invalid option.")
}

func (cli *commandLine) logSession(ctx context.Context) error {
	userID, ok, err := cli.askUserID(ctx)
	if err != nil || !ok {
		return err
	}
	ns := study.NewSession{UserID: userID}
	if ns.SessionType, err = cli.ask("Session type: "); err != nil {
		return err
	}
	if ns.SessionType == "" {
		fmt.Fprintln(cli.out, " Session type is required.")
		return nil
	}

	valid := true
	for _, f := range []struct {
		q   string
		dst *int
	}{
		{"Minutes spent: ", &ns.DurationMinutes},
		{"Score: ", &ns.Score},
		{"Total possible: ", &ns.TotalPossible},
	} {
		n, ok, err := cli.askInt(f.q)
		if err != nil {
			return err
		}
		valid = valid && ok
		*f.dst = n
	}
	if !valid {
		fmt.Fprintln(cli.out, "Insert error: counts must be whole numbers")
		return nil
	}

	sess, err := cli.studySvc.LogSession(ctx, ns)
	if err != nil {
		fmt.Fprintln(cli.out, "Insert error:", cause(err))
		return nil
	}
	fmt.Fprintf(cli.out, "Logged session: %s | %s | %d/%d (%.1f%%) | %d min\n",
		sess.ID, sess.SessionType, sess.Score, sess.TotalPossible, sess.Percentage, sess.DurationMinutes)
	return nil
}

func (cli *commandLine) printSessions(sessions []study.Session) {
	fmt.Fprintln(cli.out, "\n# | Type       | Score   | Percent | Minutes")
	fmt.Fprintln(cli.out, "--+------------+---------+---------+--------")
	for i, sess := range sessions {
		score := fmt.Sprintf("%d/%d", sess.Score, sess.TotalPossible)
		fmt.Fprintf(cli.out, "%-2d| %-10s | %-7s | %6.1f%% | %d\n", i, sess.SessionType, score, sess.Percentage, sess.DurationMinutes)
	}
}

func (cli *commandLine) viewSessions(ctx context.Context) error {
	userID, err := cli.ask("User ID: ")
	if err != nil {
		return err
	}
	sessions, err := cli.studySvc.ListSessions(ctx, userID)
	if err != nil {
		fmt.Fprintln(cli.out, "Query error:", cause(err))
		return nil
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cli.out, "No study sessions found.")
		return nil
	}
	cli.printSessions(sessions)
	return nil
}

func (cli *commandLine) deleteSession(ctx context.Context) error {
	userID, err := cli.ask("User ID: ")
	if err != nil {
		return err
	}
	sessions, err := cli.studySvc.ListSessions(ctx, userID)
	if err != nil || len(sessions) == 0 {
		fmt.Fprintln(cli.out, "No study sessions found.")
		return nil
	}
	cli.printSessions(sessions)

	idx, ok, err := cli.askIndex(len(sessions), "Cancelled.")
	if err != nil || !ok {
		return err
	}
	if err := cli.studySvc.DeleteSession(ctx, sessions[idx].ID); err != nil {
		fmt.Fprintln(cli.out, "Delete error:", cause(err))
		return nil
	}
	fmt.Fprintln(cli.out, "Study session deleted.")
	return nil
}
