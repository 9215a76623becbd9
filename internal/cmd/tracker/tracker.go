// Package tracker parses tracker command flags and wires the combat service
// to its MCP surface.
package tracker

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	entrypoint "github.com/louisbranch/phaseline/internal/platform/cmd"
	"github.com/louisbranch/phaseline/internal/services/combat/actors"
	"github.com/louisbranch/phaseline/internal/services/combat/announce"
	"github.com/louisbranch/phaseline/internal/services/combat/app"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/storage"
	"github.com/louisbranch/phaseline/internal/services/combat/storage/memory"
	"github.com/louisbranch/phaseline/internal/services/combat/storage/sqlite"
	"github.com/louisbranch/phaseline/internal/services/mcp/domain"
	"github.com/louisbranch/phaseline/internal/services/mcp/service"
)

// Config holds tracker command configuration.
type Config struct {
	Transport   string   `env:"PHASELINE_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr    string   `env:"PHASELINE_HTTP_ADDR"`
	DBPath      string   `env:"PHASELINE_DB_PATH"`
	Locale      string   `env:"PHASELINE_LOCALE"        envDefault:"en-US"`
	CallerRole  string   `env:"PHASELINE_CALLER_ROLE"   envDefault:"GM"`
	CallerID    string   `env:"PHASELINE_CALLER_ID"     envDefault:"gm"`
	FeedOrigins []string `env:"PHASELINE_FEED_ORIGINS"  envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Transport, "transport", "", "MCP transport: stdio or http (default stdio)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", "", "HTTP listen address for /mcp, /feed and /healthz")
	fs.StringVar(&cfg.DBPath, "db", "", "sqlite database path (empty keeps sessions in memory)")
	fs.StringVar(&cfg.Locale, "locale", "", "announcement and message locale (default en-US)")
	fs.StringVar(&cfg.CallerRole, "role", "", "initial caller role: GM or PLAYER (default GM)")
	fs.StringVar(&cfg.CallerID, "participant", "", "initial caller participant id (default gm)")
	// Environment fills the bound fields; flags given in args override them.
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}

	switch service.TransportKind(cfg.Transport) {
	case service.TransportStdio, service.TransportHTTP:
	default:
		return Config{}, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	if _, ok := roster.ParseRole(cfg.CallerRole); !ok {
		return Config{}, fmt.Errorf("caller role %q is not supported", cfg.CallerRole)
	}
	return cfg, nil
}

// Run starts the combat tracker.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTracker, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	store, closeStore, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close session store: %v", err)
		}
	}()

	catalog := actors.New()
	feed := announce.NewFeed(announce.FeedOptions{OriginPatterns: cfg.FeedOrigins})
	defer feed.Close()

	svc, err := app.NewService(app.Config{
		Store:      store,
		Actors:     catalog,
		Selections: catalog,
		Ownership:  catalog,
		Announcer:  announce.NewAnnouncer(announce.NewRenderer(cfg.Locale), announce.LogSink{}, feed),
	})
	if err != nil {
		return err
	}
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	role, _ := roster.ParseRole(cfg.CallerRole)
	return service.Run(ctx, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
		Context: domain.Context{
			ParticipantID: strings.TrimSpace(cfg.CallerID),
			Role:          role,
			Locale:        cfg.Locale,
		},
	}, service.Deps{
		Combat: svc,
		Actors: catalog,
		Feed:   feed,
	})
}

// openStore returns the sqlite store at path, or a memory store when path is
// empty.
func openStore(ctx context.Context, path string) (storage.SessionStore, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return memory.New(), func() error { return nil }, nil
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite store: %w", err)
	}
	log.Printf("sessions persisted to %s", path)
	return store, store.Close, nil
}
