package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lu-zhengda/aliaskit/internal/app"
	"github.com/lu-zhengda/aliaskit/internal/config"
	"github.com/lu-zhengda/aliaskit/internal/provider"
	"github.com/lu-zhengda/aliaskit/internal/provider/purelymail"
	"github.com/lu-zhengda/aliaskit/internal/store"
	"github.com/lu-zhengda/aliaskit/internal/store/sqlite"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool

	// logger backs the warn-and-continue paths in the app layer. User-facing
	// output stays on fmt/tabwriter.
	logger = newLogger()
)

// newLogger builds a stderr console logger at warn level and above.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "aliaskit",
		Short:   "Email alias manager for Purelymail",
		Long:    "Manage Purelymail email aliases: create, list, delete, and mark as spam,\nwith email-field detection for HTML documents.",
		Version: version,
	}
	root.SetVersionTemplate(fmt.Sprintf("aliaskit %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newSetupCmd())
	root.AddCommand(newDomainsCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newAliasCmd())
	root.AddCommand(newRecentCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore creates the data directory and opens the SQLite database.
func openStore() (*sqlite.DB, error) {
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "aliaskit.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newProvider builds the API client from config and token.
func newProvider(cfg *config.Config, token string) provider.AliasProvider {
	timeout, err := time.ParseDuration(cfg.API.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	return purelymail.New(cfg.API.BaseURL, token, &http.Client{Timeout: timeout})
}

// resolveToken returns the API token: OS keyring first, then the settings
// record.
func resolveToken(ctx context.Context, db store.Store) (string, error) {
	settings, err := db.Settings(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	tokens := store.NewKeyringTokenStore()
	if token, err := tokens.LoadToken(); err == nil && token != "" {
		return token, nil
	}
	if settings.APIToken != "" {
		return settings.APIToken, nil
	}
	return "", &app.ConfigError{Reason: "API token not configured; run 'aliaskit setup' first"}
}

// setupClient wires up the store, config, and an authenticated API client.
func setupClient(ctx context.Context) (provider.AliasProvider, *sqlite.DB, *config.Config, error) {
	db, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	token, err := resolveToken(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	return newProvider(cfg, token), db, cfg, nil
}
