package main

import (
	"context"
)

// resetPassword sets a new password for the user matching uname.
func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.ResetPassword(ctx, usr, pwd)
	return err
}
