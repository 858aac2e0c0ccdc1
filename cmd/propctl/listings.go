package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/listing/filter"
)

func cmdList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list", a.out)
	all := fs.Bool("all", false, "every owner's properties (admin)")
	category := fs.String("type", "All", "category, e.g. Flats")
	kind := fs.String("kind", "All", "Rent, Sale or All")
	query := fs.String("q", "", "search title, description and location")
	recency := fs.String("recency", "All", "New, Old or All")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	if err := a.records.Refresh(ctx, a.scope(*all)); err != nil {
		return err
	}
	view := a.records.View(filter.Criteria{
		Category:    filter.ParseCategory(*category),
		ListingKind: filter.ParseListingKind(*kind),
		SearchText:  *query,
		Recency:     filter.ParseRecency(*recency),
	})
	printRecords(a.out, view, *all)
	return nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add", a.out)
	var in fieldFlags
	in.register(fs)
	var imagePaths stringList
	fs.Var(&imagePaths, "image", "image file to upload (repeatable)")
	owner := fs.String("owner", "", "create on behalf of this user id (admin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	fields := in.fields(fs, domain.Fields{})
	images, err := readImages(imagePaths)
	if err != nil {
		return err
	}

	scope := a.scope(*owner != "")
	if err := a.records.Refresh(ctx, scope); err != nil {
		return err
	}
	if *owner != "" {
		_, err = a.records.CreateForOwner(ctx, *owner, fields, images)
	} else {
		_, err = a.records.Create(ctx, fields, images)
	}
	return err
}

func cmdEdit(ctx context.Context, a *app, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("edit", a.out)
	var in fieldFlags
	in.register(fs)
	var drop, imagePaths stringList
	fs.Var(&drop, "drop", "existing image URL to remove (repeatable)")
	fs.Var(&imagePaths, "image", "new image file to upload (repeatable)")
	keep := fs.String("keep", "", "comma-separated image URLs to keep, in order; \"none\" keeps nothing")
	all := fs.Bool("all", false, "look the record up among every owner's properties (admin)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return fmt.Errorf("usage: propctl edit <id> [flags]")
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	if err := a.records.Refresh(ctx, a.scope(*all)); err != nil {
		return err
	}
	draft, err := a.records.BeginEdit(id)
	if err != nil {
		return err
	}
	draft.Fields = in.fields(fs, draft.Fields)

	if *keep != "" {
		for _, u := range draft.Retained() {
			if err := draft.Remove(u); err != nil {
				return err
			}
		}
		if *keep != "none" {
			for _, u := range strings.Split(*keep, ",") {
				if err := draft.Keep(strings.TrimSpace(u)); err != nil {
					draft.Cancel()
					return err
				}
			}
		}
	}
	for _, u := range drop {
		if err := draft.Remove(u); err != nil {
			draft.Cancel()
			return err
		}
	}
	images, err := readImages(imagePaths)
	if err != nil {
		draft.Cancel()
		return err
	}
	for _, img := range images {
		if err := draft.Attach(img); err != nil {
			draft.Cancel()
			return err
		}
	}

	_, err = draft.Save(ctx)
	return err
}

func cmdRemove(ctx context.Context, a *app, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("rm", a.out)
	yes := fs.Bool("yes", false, "confirm the deletion")
	all := fs.Bool("all", false, "look the record up among every owner's properties (admin)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return fmt.Errorf("usage: propctl rm <id> -yes")
	}
	if !*yes {
		return fmt.Errorf("refusing to delete %s without -yes", id)
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	if err := a.records.Refresh(ctx, a.scope(*all)); err != nil {
		return err
	}
	return a.records.Remove(ctx, id)
}

// fieldFlags are the editable property attributes shared by add and edit
type fieldFlags struct {
	title, description, price, category, kind, location *string
}

func (f *fieldFlags) register(fs *flag.FlagSet) {
	f.title = fs.String("title", "", "title (required)")
	f.description = fs.String("desc", "", "description")
	f.price = fs.String("price", "", "price, e.g. 45,00,000")
	f.category = fs.String("type", "", "category, e.g. Flats")
	f.kind = fs.String("kind", "", "Rent or Sale")
	f.location = fs.String("location", "", "location")
}

// fields overlays the flags that were set on base
func (f *fieldFlags) fields(fs *flag.FlagSet, base domain.Fields) domain.Fields {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			base.Title = *f.title
		case "desc":
			base.Description = domain.Ptr(*f.description)
		case "price":
			base.Price = domain.Ptr(domain.ParsePrice(*f.price))
		case "type":
			base.Category = domain.Ptr(domain.ParseCategory(*f.category))
		case "kind":
			base.ListingKind = domain.Ptr(domain.ParseListingKind(*f.kind))
		case "location":
			base.Location = domain.Ptr(*f.location)
		}
	})
	return base
}

func printRecords(out io.Writer, records []domain.PropertyRecord, withOwner bool) {
	if len(records) == 0 {
		fmt.Fprintln(out, "no properties")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "ID\tTITLE\tTYPE\tKIND\tPRICE\tLOCATION\tIMAGES\tCREATED"
	if withOwner {
		header += "\tOWNER"
	}
	fmt.Fprintln(w, header)
	for _, r := range records {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s",
			r.ID, r.Title, orDash(string(r.Category)), orDash(string(r.ListingKind)),
			orDash(r.Price.String()), orDash(r.Location), len(r.Images), r.CreatedAt.Local().Format("2006-01-02"))
		if withOwner {
			line += "\t" + orDash(r.Owner.Username())
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
