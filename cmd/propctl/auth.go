package main

import (
	"context"
	"fmt"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register", a.out)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.auth.Register(ctx, domain.RegisterRequest{Username: *username, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if a.store.Authenticated() {
		fmt.Fprintf(a.out, "registered and signed in as %s\n", displayName(resp.User))
		return nil
	}
	fmt.Fprintln(a.out, "registered, now run: propctl login")
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login", a.out)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.auth.Login(ctx, domain.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	role := "user"
	if resp.User.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", displayName(resp.User), role)
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	user, ok := a.store.User()
	if !ok {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "id:       %s\nusername: %s\nemail:    %s\nadmin:    %t\n", user.ID, user.Username, user.Email, user.IsAdmin)
	if exp := a.store.Snapshot().ExpiresAt; !exp.IsZero() {
		fmt.Fprintf(a.out, "expires:  %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func displayName(u domain.UserSummary) string {
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
