package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tasktutor/core"
	"github.com/trezcool/tasktutor/core/user"
)

func (cli *commandLine) usersMenu(ctx context.Context) error {
	return cli.menu(ctx, "Users", []menuItem{
		{label: "Add user", action: cli.addProfile},
		{label: "List users", action: func(ctx context.Context) error {
			_, err := cli.listProfiles(ctx)
			return err
		}},
		{label: "Delete user", action: cli.deleteProfile},
	}, " Invalid option.")
}

func printProfile(usr user.User) string {
	return fmt.Sprintf("%s | %s | %s", usr.ID, usr.Name, usr.Email)
}

func (cli *commandLine) addProfile(ctx context.Context) error {
	name, err := cli.ask("Name: ")
	if err != nil {
		return err
	}
	email, err := cli.ask("Email: ")
	if err != nil {
		return err
	}
	if core.CleanString(name) == "" {
		fmt.Fprintln(cli.out, " Name is required.")
		return nil
	}
	if cli.validate.Var(email, "required,email") != nil {
		fmt.Fprintln(cli.out, " Invalid email.")
		return nil
	}

	usr, err := cli.usrSvc.Create(ctx, user.NewUser{Name: name, Email: email})
	if err != nil {
		fmt.Fprintln(cli.out, " Insert error:", cause(err))
		return nil
	}
	fmt.Fprintln(cli.out, " Inserted:", printProfile(usr))
	return nil
}

// listProfiles prints the numbered profiles, newest first, and returns them.
func (cli *commandLine) listProfiles(ctx context.Context) ([]user.User, error) {
	users, err := cli.usrSvc.QueryAll(ctx)
	if err != nil {
		fmt.Fprintln(cli.out, " List error:", cause(err))
		return nil, nil
	}
	if len(users) == 0 {
		fmt.Fprintln(cli.out, " No users yet.")
		return nil, nil
	}
	fmt.Fprintln(cli.out, "\n#  id                                   | name             | email")
	fmt.Fprintln(cli.out, "---+-------------------------------------+------------------+--------------------------")
	for i, usr := range users {
		fmt.Fprintf(cli.out, "%-2d | %s | %-16s | %s\n", i, usr.ID, usr.Name, usr.Email)
	}
	return users, nil
}

func (cli *commandLine) deleteProfile(ctx context.Context) error {
	users, err := cli.listProfiles(ctx)
	if err != nil || len(users) == 0 {
		return err
	}
	idx, ok, err := cli.askIndex(len(users), " Cancelled.")
	if err != nil || !ok {
		return err
	}
	if err := cli.usrSvc.Delete(ctx, users[idx].ID); err != nil {
		fmt.Fprintln(cli.out, " Delete error:", cause(err))
		return nil
	}
	fmt.Fprintln(cli.out, " Deleted:", printProfile(users[idx]))
	return nil
}
