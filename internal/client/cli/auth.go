package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for email, name and password and creates an account. On
// success the new account is signed in. The password is wiped before return.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Signup(ctx, email, password, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

// Signin prompts for credentials and opens a session.
func (a *App) Signin(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Signin(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", user.Email)
	return nil
}

// Signout drops the session. The local tokens are gone even if the server
// could not be reached.
func (a *App) Signout(ctx context.Context) error {
	if err := a.authService.Signout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u, err := a.authService.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d %s <%s>, member since %s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format("2006-01-02"))
	return nil
}
