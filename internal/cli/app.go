// Package cli implements the songsync command-line interface:
// sync, reset, import and list subcommands over the shared config.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/songsync/internal/config"
	"github.com/dmitrijs2005/songsync/internal/logging"
	"github.com/dmitrijs2005/songsync/internal/remote"
	"github.com/dmitrijs2005/songsync/internal/store"
	syncpkg "github.com/dmitrijs2005/songsync/internal/sync"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	store  *store.SQLiteStore
	log    logging.Logger
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database %q: %w", cfg.DatabasePath, err)
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	return &App{config: cfg, store: st, log: log}, nil
}

func (a *App) Close() error { return a.store.Close() }

// Run dispatches the subcommand named by the first positional argument.
// No subcommand defaults to sync.
func (a *App) Run(ctx context.Context) error {
	args := positionalArgs(os.Args[1:])

	cmd := "sync"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "sync":
		return a.runSync(ctx)
	case "reset":
		return a.runReset(ctx)
	case "import":
		return a.runImport(ctx, args)
	case "list":
		return a.runList(ctx)
	default:
		return fmt.Errorf("unknown command %q (expected sync, reset, import or list)", cmd)
	}
}

// orchestrator wires the stores into a sync orchestrator. The remote store
// is dialed lazily so local-only commands never touch the network.
func (a *App) orchestrator(ctx context.Context) (*syncpkg.Orchestrator, error) {
	if a.config.S3Bucket == "" {
		return nil, fmt.Errorf("no S3 bucket configured (use -b or the JSON config)")
	}

	fs, err := remote.NewS3Store(ctx, remote.S3Config{
		Region:    a.config.S3Region,
		Bucket:    a.config.S3Bucket,
		Endpoint:  a.config.S3Endpoint,
		AccessKey: a.config.S3AccessKey,
		SecretKey: a.config.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote store: %w", err)
	}

	return syncpkg.NewOrchestrator(a.store, fs, syncpkg.Config{
		RootFolderName: a.config.RootFolderName,
		ChunkSize:      a.config.ChunkSize,
	}, a.log), nil
}

// positionalArgs strips flags and their values, leaving subcommand words and
// file arguments.
func positionalArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if !strings.Contains(args[i], "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}
