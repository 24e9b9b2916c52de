package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login authenticates username, prompting for it when empty, and always
// prompting for the password. The password is wiped before returning.
func (a *App) Login(ctx context.Context, username string) error {
	if username == "" {
		var err error
		username, err = getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.DisplayName())
	return nil
}

// Register creates a customer account, prompting for anything the user did
// not give. It does not log in.
func (a *App) Register(ctx context.Context, username string) error {
	var err error
	if username == "" {
		if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return err
		}
	}
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Register(ctx, models.RegisterRequest{
		Username: username,
		Name:     name,
		Email:    email,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d). Use 'login %s' to sign in.\n", user.Username, user.ID, user.Username)
	return nil
}

// Logout ends the session; doing so while logged out is not an error.
func (a *App) Logout(ctx context.Context) error {
	a.loggingOut.Store(true)
	defer a.loggingOut.Store(false)

	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI shows the cached user, or the server's view of it when remote is set.
func (a *App) WhoAmI(ctx context.Context, remote bool) error {
	if remote {
		user, err := a.auth.Profile(ctx)
		if err != nil {
			return err
		}
		printUser(a.out, user)
		return nil
	}

	user, ok := a.auth.Validate(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	printUser(a.out, user)
	return nil
}
