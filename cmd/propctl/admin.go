package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/filter"
	"golang.org/x/sync/errgroup"
)

// cmdAdmin loads every record and every user side by side and prints a summary
func cmdAdmin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin", a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}
	if !a.store.IsAdmin() {
		return fmt.Errorf("admin rights required")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.records.Refresh(gctx, a.scope(true))
	})
	g.Go(func() error {
		return a.users.Refresh(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	records := a.records.Records()
	users := a.users.Users()
	now := time.Now()

	byCategory := map[string]int{}
	byKind := map[string]int{}
	byOwner := map[string]int{}
	for _, r := range records {
		byCategory[orDash(string(r.Category))]++
		byKind[orDash(string(r.ListingKind))]++
		byOwner[orDash(r.Owner.Username())]++
	}
	fresh := len(a.records.View(filter.Criteria{Recency: filter.RecencyNew, Now: now}))

	admins := 0
	for _, u := range users {
		if u.IsAdmin {
			admins++
		}
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "users\t%d\t(%d admin)\n", len(users), admins)
	fmt.Fprintf(w, "properties\t%d\t(%d new this week)\n", len(records), fresh)
	for _, section := range []struct {
		title  string
		counts map[string]int
	}{
		{"by type", byCategory},
		{"by kind", byKind},
		{"by owner", byOwner},
	} {
		fmt.Fprintf(w, "\n%s\t\t\n", section.title)
		for _, k := range sortedKeys(section.counts) {
			fmt.Fprintf(w, "  %s\t%d\t\n", k, section.counts[k])
		}
	}
	return w.Flush()
}
