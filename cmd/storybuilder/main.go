// Command storybuilder runs the Cosmic Story Builder.
//
// Usage:
//
//	storybuilder                  builder view
//	storybuilder gallery          gallery view
//	storybuilder mcp              MCP tools on stdio
//	storybuilder export [-o file] write every story as NDJSON
//	storybuilder import <file>    append stories from NDJSON
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/app"
	"github.com/jwulff/storybuilder/internal/archive"
	"github.com/jwulff/storybuilder/internal/builder"
	"github.com/jwulff/storybuilder/internal/clipboard"
	"github.com/jwulff/storybuilder/internal/config"
	"github.com/jwulff/storybuilder/internal/db"
	"github.com/jwulff/storybuilder/internal/gallery"
	"github.com/jwulff/storybuilder/internal/handoff"
	"github.com/jwulff/storybuilder/internal/kv"
	"github.com/jwulff/storybuilder/internal/logger"
	"github.com/jwulff/storybuilder/internal/mcp"
	"github.com/jwulff/storybuilder/internal/redisstore"
	"github.com/jwulff/storybuilder/internal/stories"
	"github.com/jwulff/storybuilder/internal/synth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "", "builder":
		return runTUI(ctx, cfg, app.ViewBuilder)
	case "gallery":
		return runTUI(ctx, cfg, app.ViewGallery)
	case "mcp":
		return runMCP(cfg)
	case "export":
		return runExport(ctx, cfg, args)
	case "import":
		return runImport(ctx, cfg, args)
	default:
		return fmt.Errorf("unknown command %q (want gallery, mcp, export or import)", cmd)
	}
}

func openStore(cfg *config.Config) (*db.Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = db.DefaultDBPath()
	}
	return db.Open(path)
}

// openSession returns the session space for the edit handoff and a func
// releasing it.
func openSession(ctx context.Context, cfg *config.Config, log *zap.Logger) (kv.Storage, func(), error) {
	if cfg.RedisURL == "" {
		return kv.NewMemory(), func() {}, nil
	}
	rs, err := redisstore.Open(ctx, cfg.RedisURL, cfg.RedisPrefix, cfg.HandoffTTL, log)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.Warn("Closing session space", zap.Error(err))
		}
	}, nil
}

func newSynth(cfg *config.Config) (*synth.Synthesizer, error) {
	s, err := synth.NewRandom(synth.WithImageBase(cfg.ImageBase))
	if err != nil {
		return nil, fmt.Errorf("seed synthesizer: %w", err)
	}
	return s, nil
}

// tuiLogPath keeps logs off the terminal the UI draws on.
func tuiLogPath(cfg *config.Config) string {
	if cfg.LogPath != "" {
		return cfg.LogPath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "storybuilder.log")
	}
	return filepath.Join(dir, "StoryBuilder", "storybuilder.log")
}

func runTUI(ctx context.Context, cfg *config.Config, start app.View) error {
	logPath := tuiLogPath(cfg)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, OutputPath: logPath})
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	session, release, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer release()

	composer, err := newSynth(cfg)
	if err != nil {
		return err
	}

	collection := stories.New(store, log)
	channel := handoff.New(session, log)
	// The renderer and the OSC 52 copy share stdout.
	term := clipboard.NewTerminal(os.Stdout)

	m := app.New(app.Deps{
		Builder:       builder.New(collection, composer, channel, log),
		Gallery:       gallery.New(collection, channel, log),
		Copier:        clipboard.New(term, log),
		Logger:        log,
		Start:         start,
		GenerateDelay: cfg.GenerateDelay,
		LoadDelay:     cfg.LoadDelay,
		NoticeTTL:     cfg.NoticeTTL,
	})

	log.Info("Starting TUI", zap.String("db", cfg.DBPath), zap.Bool("redis", cfg.RedisURL != ""))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(term))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func runMCP(cfg *config.Config) error {
	// stdout carries the protocol.
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, OutputPath: "stderr"})
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	composer, err := newSynth(cfg)
	if err != nil {
		return err
	}

	log.Info("Serving MCP on stdio")
	return mcp.New(stories.New(store, log), composer, log).Serve()
}

func runExport(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	n, err := archive.Export(ctx, w, stories.New(store, nil))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d stories\n", n)
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storybuilder import <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	read, added, err := archive.Import(ctx, f, stories.New(store, nil))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Read %d stories, added %d\n", read, added)
	return nil
}
