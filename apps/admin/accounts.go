package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tasktutor/core/auth"
)

// addUser creates an account, or sets the password of an existing one and reactivates it.
func (cli *commandLine) addUser(ctx context.Context, email, pwd string) error {
	acc, created, err := cli.authSvc.CreateOrActivate(ctx, auth.SetPassword{Email: email, Password: pwd, PasswordConfirm: pwd})
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cli.out, "Account %s created (%s).\n", acc.Email, acc.ID)
	} else {
		fmt.Fprintf(cli.out, "Account %s activated.\n", acc.Email)
	}
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	acc, err := cli.authSvc.SetPassword(ctx, auth.SetPassword{Email: email, Password: pwd, PasswordConfirm: pwd})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Password of %s has been reset.\n", acc.Email)
	return nil
}
