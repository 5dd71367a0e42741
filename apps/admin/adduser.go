package main

import (
	"context"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/user"
)

// addUser creates a back-office account, or resets an existing one's password.
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		roles := user.StaffRoles
		if isAdmin {
			roles = user.AllRoles
		}
		nu := user.NewUser{
			Name:            uname,
			Username:        uname,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
			Roles:           roles,
		}
		_, err = cli.usrSvc.Create(ctx, nu)
		return err
	}

	if isAdmin {
		usr.Roles = user.AllRoles
	}
	_, err = cli.usrSvc.ResetPassword(ctx, usr, pwd)
	return err
}
