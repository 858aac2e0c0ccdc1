package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

func cmdUsers(ctx context.Context, a *app, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		return usersList(ctx, a)
	case "add":
		return usersAdd(ctx, a, args)
	case "edit":
		return usersEdit(ctx, a, args)
	case "rm":
		return usersRemove(ctx, a, args)
	default:
		return fmt.Errorf("unknown users command %q (want list, add, edit or rm)", sub)
	}
}

func usersList(ctx context.Context, a *app) error {
	if err := a.users.Refresh(ctx); err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tADMIN")
	for _, u := range a.users.Users() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.IsAdmin)
	}
	return w.Flush()
}

func usersAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("users add", a.out)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "initial password")
	admin := fs.Bool("admin", false, "grant admin rights")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := a.users.Create(ctx, domain.NewUser{Username: *username, Email: *email, Password: *password, IsAdmin: *admin})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user %s (%s)\n", u.Username, u.ID)
	return nil
}

func usersEdit(ctx context.Context, a *app, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("users edit", a.out)
	username := fs.String("username", "", "new display name")
	email := fs.String("email", "", "new email address")
	password := fs.String("password", "", "new password")
	admin := fs.Bool("admin", false, "admin rights (use -admin=false to revoke)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("usage: propctl users edit <id> [flags]")
	}

	var changes domain.UserChanges
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "username":
			changes.Username = domain.Ptr(*username)
		case "email":
			changes.Email = domain.Ptr(*email)
		case "password":
			changes.Password = domain.Ptr(*password)
		case "admin":
			changes.IsAdmin = domain.Ptr(*admin)
		}
	})

	u, err := a.users.Update(ctx, id, changes)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated user %s (admin: %t)\n", u.Username, u.IsAdmin)
	return nil
}

func usersRemove(ctx context.Context, a *app, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("users rm", a.out)
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("usage: propctl users rm <id> -yes")
	}
	if !*yes {
		return fmt.Errorf("refusing to delete user %s without -yes", id)
	}
	if err := a.users.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted user %s\n", id)
	return nil
}
