package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhkang/novelkeep/authclient"
	"github.com/dhkang/novelkeep/ratelimit"
	"github.com/dhkang/novelkeep/secstore"
	"github.com/dhkang/novelkeep/session"
	bboltstorage "github.com/dhkang/novelkeep/storage/bbolt"
	"github.com/dhkang/novelkeep/userdata"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "novelkeep",
	Short: "novelkeep manages the local reading state of a web-novel account",
	Long: `novelkeep is the client-side state layer of a web-novel reading service:
login with local attempt rate limiting, a tamper-evident session, and
per-user reading progress and favorites.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the TOML config file")
}

// app bundles the wired components behind every subcommand.
type app struct {
	cfg       Config
	store     *bboltstorage.Store
	sessions  *session.Context
	guard     *ratelimit.Guard
	flow      *authclient.Flow
	progress  *userdata.ProgressStore
	favorites *userdata.FavoritesStore
	bookmarks *userdata.BookmarkStore
	logger    *slog.Logger
}

func openApp() (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	backend, err := bboltstorage.NewStoreFromFile(filepath.Join(cfg.DataDir, "state.db"), nil)
	if err != nil {
		return nil, fmt.Errorf("opening local state: %w", err)
	}
	sec, err := secstore.Open(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	sessions := session.NewContext(sec)
	guard := ratelimit.NewGuard(sec)
	client := authclient.NewClient(cfg.AuthEndpoint,
		authclient.WithHTTPClient(&http.Client{Timeout: cfg.httpTimeout()}),
		authclient.WithInstallID(sec),
	)

	return &app{
		cfg:       cfg,
		store:     backend,
		sessions:  sessions,
		guard:     guard,
		flow:      authclient.NewFlow(client, guard, sessions, authclient.WithLogger(logger)),
		progress:  userdata.NewProgressStore(sec),
		favorites: userdata.NewFavoritesStore(sec),
		bookmarks: userdata.NewBookmarkStore(sec),
		logger:    logger,
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}

// requireUser returns the active user id or an error telling the user to
// log in first.
func (a *app) requireUser() (string, error) {
	id := a.sessions.CurrentUserID()
	if id == "" {
		return "", fmt.Errorf("not logged in; run `novelkeep login` first")
	}
	return id, nil
}
