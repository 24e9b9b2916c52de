package cli

import (
	"context"
	"fmt"
)

// Users lists one page of users, or of disabled users only.
func (a *App) Users(ctx context.Context, page int, disabled bool) error {
	list := a.users.ByPage
	if disabled {
		list = a.users.DisabledByPage
	}
	users, err := list(ctx, page)
	if err != nil {
		return err
	}
	printUsers(a.out, users)
	return nil
}

func (a *App) User(ctx context.Context, id int64) error {
	u, err := a.users.ByID(ctx, id)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) Enable(ctx context.Context, id int64) error {
	u, err := a.users.Enable(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s enabled.\n", u.Username)
	return nil
}
