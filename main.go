package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"runlog/internal/auth"
	"runlog/internal/config"
	"runlog/internal/logging"
	"runlog/internal/service"
	"runlog/internal/store"
	"runlog/internal/strava"
	"runlog/internal/tui"
	"runlog/internal/units"
)

const usage = `Usage: runlog [command] [flags]

Commands:
  (none)     open the dashboard
  status     print training status, fitness and readiness
  log        log a training session
  health     log a morning health reading
  import     import FIT files
  sync       import new activities from Strava
  auth       connect a Strava account
  init       write an example config file

Run 'runlog <command> -h' for the flags of a command.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles the configuration, store and services one command needs
type app struct {
	cfg   *config.Config
	db    *store.DB
	log   zerolog.Logger
	loc   *time.Location
	query *service.QueryService
	entry *service.EntryService
	units units.Units
	out   io.Writer
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config at %s/config.json: %w", configDir, err)
	}

	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	case "init":
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		fmt.Printf("Edit your profile and Strava credentials in:\n  %s/config.json\n", configDir)
		fmt.Println("Get Strava credentials from: https://www.strava.com/settings/api")
		return nil
	}

	// The TUI owns the terminal, so it logs to a file
	logger := logging.New(os.Stderr, cfg.LogLevel)
	if cmd == "" {
		fileLogger, f, err := logging.NewFile(configDir, "runlog.log", cfg.LogLevel)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = fileLogger
	}

	db, err := store.Open(configDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a := &app{
		cfg:   cfg,
		db:    db,
		log:   logger,
		loc:   loc,
		query: service.NewQueryService(db, cfg.Profile(), cfg.Engine.FitnessWindowDays, logger),
		entry: service.NewEntryService(db, loc, logger),
		units: units.New(cfg.Display.DistanceUnit),
		out:   os.Stdout,
	}

	switch cmd {
	case "":
		return a.runTUI(ctx)
	case "status":
		return a.status(ctx, args)
	case "log":
		return a.logSession(ctx, args)
	case "health":
		return a.logHealth(ctx, args)
	case "import":
		return a.importFIT(ctx, args)
	case "sync":
		return a.sync(ctx)
	case "auth":
		return a.authenticate(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) runTUI(ctx context.Context) error {
	syncSvc, err := a.syncService(ctx)
	if err != nil {
		a.log.Info().Err(err).Msg("strava sync unavailable")
	}

	program := tea.NewProgram(tui.NewApp(tui.Deps{
		Query: a.query,
		Entry: a.entry,
		Sync:  syncSvc,
		Units: a.units,
		Today: a.cfg.Today,
	}), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func (a *app) oauthConfig() *oauth2.Config {
	return auth.NewOAuthConfig(auth.Config{
		ClientID:     a.cfg.Strava.ClientID,
		ClientSecret: a.cfg.Strava.ClientSecret,
		RedirectURL:  auth.RedirectURL(auth.CallbackPort),
	})
}

// syncService connects the stored Strava tokens to a sync service.
// Returns an error when credentials or tokens are missing.
func (a *app) syncService(ctx context.Context) (*service.SyncService, error) {
	if err := a.cfg.ValidateStrava(); err != nil {
		return nil, err
	}

	ts, err := auth.LoadTokenSource(ctx, a.oauthConfig(), a.db)
	if errors.Is(err, store.ErrNoAuth) {
		return nil, errors.New("strava is not connected, run 'runlog auth' first")
	}
	if err != nil {
		return nil, fmt.Errorf("loading strava tokens: %w", err)
	}

	client := strava.NewClient(ts)
	return service.NewSyncService(client, a.db, a.cfg.Profile(), a.log), nil
}
