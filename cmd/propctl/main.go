package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/OwesNiyazi/propertyFront/config"
	"github.com/OwesNiyazi/propertyFront/internal/gateway"
	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/listing/service"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
	"github.com/OwesNiyazi/propertyFront/internal/session"
	usersvc "github.com/OwesNiyazi/propertyFront/internal/users/service"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const usage = `usage: propctl <command> [flags]

commands:
  register   create an account and sign in
  login      sign in
  logout     forget the stored token
  whoami     show the signed-in user
  list       list properties (-all for every owner, admin only)
  add        create a property
  edit       change a property: propctl edit <id> [flags]
  rm         delete a property: propctl rm <id> -yes
  users      manage accounts (admin): list | add | edit <id> | rm <id>
  admin      dashboard of records and users (admin)
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(logging.Options{
		Writer: os.Stderr,
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Color:  cfg.App.Environment == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register": cmdRegister,
	"login":    cmdLogin,
	"logout":   cmdLogout,
	"whoami":   cmdWhoami,
	"list":     cmdList,
	"add":      cmdAdd,
	"edit":     cmdEdit,
	"rm":       cmdRemove,
	"users":    cmdUsers,
	"admin":    cmdAdmin,
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(out, usage)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}

	a, err := newApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer a.close()

	err = cmd(ctx, a, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// app wires the session, gateway and clients for one invocation
type app struct {
	out     io.Writer
	store   *session.Store
	gw      *gateway.Client
	auth    *session.Authenticator
	records *service.Client
	users   *usersvc.Directory
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	a := &app{out: out}

	persister, err := a.persister(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.store = session.NewStore(persister)
	if err := a.store.Init(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.gw = gateway.New(cfg.API.BaseURL, a.store,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithRateLimit(cfg.API.RateLimit, 1),
	)
	a.auth = session.NewAuthenticator(a.gw, a.store)
	a.records = service.NewClient(a.gw, service.WithNotifier(service.NotifierFunc(a.notify)))
	a.users = usersvc.NewDirectory(a.gw)
	return a, nil
}

func (a *app) persister(ctx context.Context, cfg *config.Config) (session.Persister, error) {
	if cfg.Session.Backend != "redis" {
		return session.NewFilePersister(cfg.Session.File), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	return session.NewRedisPersister(client, cfg.Session.Profile, cfg.Session.TTL), nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// notify is the toast equivalent: one line per finished mutation
func (a *app) notify(ctx context.Context, e service.Event) {
	switch e.State {
	case service.StateSucceeded:
		fmt.Fprintf(a.out, "%s succeeded %s\n", e.Kind, e.RecordID)
	case service.StateFailed:
		fmt.Fprintf(a.out, "%s failed: %v\n", e.Kind, e.Err)
	}
}

func (a *app) requireSession() error {
	if !a.store.Authenticated() {
		return fmt.Errorf("not signed in, run: propctl login")
	}
	return nil
}

func (a *app) scope(all bool) service.Scope {
	if all {
		return service.ScopeAll
	}
	return service.ScopeOwn
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// splitID takes a leading positional id so flags may follow it
func splitID(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

// stringList is a repeatable flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func readImages(paths []string) ([]domain.ImageFile, error) {
	files := make([]domain.ImageFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		f := domain.ImageFile{Name: p, Content: content}
		if !f.IsImage() {
			return nil, &domain.ValidationError{Field: "image", Message: fmt.Sprintf("%s is not an image", p)}
		}
		files = append(files, f)
	}
	return files, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
