package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tasktutor/core/study"
)

func (cli *commandLine) progressMenu(ctx context.Context) error {
	return cli.menu(ctx, "Progress Tracker", []menuItem{
		{label: "Log study activity", action: cli.logActivity},
		{label: "View progress", action: cli.viewProgress},
		{label: "Delete study activity", action: cli.deleteActivity},
	}, "Invalid option.")
}

// askUserID reads a user ID and checks that the profile exists.
func (cli *commandLine) askUserID(ctx context.Context) (string, bool, error) {
	userID, err := cli.ask("User ID: ")
	if err != nil {
		return "", false, err
	}
	if userID == "" {
		fmt.Fprintln(cli.out, " User ID is required.")
		return "", false, nil
	}
	exists, err := cli.usrSvc.Exists(ctx, userID)
	if err != nil || !exists {
		fmt.Fprintln(cli.out, " No user found with that ID.")
		return "", false, nil
	}
	return userID, true, nil
}

func (cli *commandLine) logActivity(ctx context.Context) error {
	userID, ok, err := cli.askUserID(ctx)
	if err != nil || !ok {
		return err
	}
	activityType, err := cli.ask("Activity (quiz/flashcards/matching/notes): ")
	if err != nil {
		return err
	}
	if !study.IsActivityType(activityType) {
		fmt.Fprintln(cli.out, " Invalid activity type.")
		return nil
	}
	na := study.NewActivity{UserID: userID, ActivityType: activityType}
	if na.Topic, err = cli.ask("Topic: "); err != nil {
		return err
	}

	valid := true
	for _, f := range []struct {
		q   string
		dst *int
	}{
		{"Items total: ", &na.ItemsTotal},
		{"Items correct: ", &na.ItemsCorrect},
		{"Minutes spent: ", &na.DurationMinutes},
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

	act, err := cli.studySvc.LogActivity(ctx, na)
	if err != nil {
		fmt.Fprintln(cli.out, "Insert error:", cause(err))
		return nil
	}
	fmt.Fprintf(cli.out, "Logged activity: %s | %s | %s | %s%% | %d min\n",
		act.ID, act.ActivityType, act.TopicOr("N/A"), act.Accuracy(), act.DurationMinutes)
	return nil
}

func (cli *commandLine) viewProgress(ctx context.Context) error {
	userID, err := cli.ask("User ID: ")
	if err != nil {
		return err
	}
	acts, err := cli.studySvc.ListActivities(ctx, userID)
	if err != nil {
		fmt.Fprintln(cli.out, "Query error:", cause(err))
		return nil
	}
	if len(acts) == 0 {
		fmt.Fprintln(cli.out, "No study activity found.")
		return nil
	}
	fmt.Fprintln(cli.out, "\n=== Study Progress ===")
	for _, act := range acts {
		fmt.Fprintf(cli.out, "• %s | %s | %s%% | %d min\n", act.ActivityType, act.TopicOr("N/A"), act.Accuracy(), act.DurationMinutes)
	}
	return nil
}

func (cli *commandLine) deleteActivity(ctx context.Context) error {
	userID, err := cli.ask("User ID: ")
	if err != nil {
		return err
	}
	acts, err := cli.studySvc.ListActivities(ctx, userID)
	if err != nil || len(acts) == 0 {
		fmt.Fprintln(cli.out, "No study activity found.")
		return nil
	}
	fmt.Fprintln(cli.out, "\n# | Activity | Topic | Accuracy | Minutes")
	fmt.Fprintln(cli.out, "--+----------+-------+----------+--------")
	for i, act := range acts {
		fmt.Fprintf(cli.out, "%-2d| %-8s | %-5s | %-8s | %d\n", i, act.ActivityType, act.TopicOr("null"), act.Accuracy(), act.DurationMinutes)
	}

	idx, ok, err := cli.askIndex(len(acts), "Cancelled.")
	if err != nil || !ok {
		return err
	}
	if err := cli.studySvc.DeleteActivity(ctx, acts[idx].ID); err != nil {
		fmt.Fprintln(cli.out, "Delete error:", cause(err))
		return nil
	}
	fmt.Fprintln(cli.out, "Study activity deleted.")
	return nil
}
