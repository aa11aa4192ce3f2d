package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shade-match/internal/catalog"
	"shade-match/internal/config"
	"shade-match/internal/match"
	"shade-match/internal/version"
)

var errNoCatalog = errors.New("no catalog configured: pass --catalog or --db")

var (
	// cfg is the configuration shared by subcommands
	cfg config.Config
	// db is opened on demand when the catalog lives in PostgreSQL
	db *catalog.Store

	configPath  string
	catalogPath string
	dbURL       string
)

var rootCmd = &cobra.Command{
	Use:     "shadematch",
	Short:   "Facial cosmetic color extraction and product matching",
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			// The command context may already be cancelled.
			db.Close(context.Background())
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.json, .yaml or .toml; default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Product catalog file (.csv or .json)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string for the product catalog")
}

// databaseURL returns --db, or a URL built from the POSTGRES_* environment.
func databaseURL() string {
	if dbURL != "" {
		return dbURL
	}
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"), host, port, os.Getenv("POSTGRES_DB"))
}

func openStore(ctx context.Context) (*catalog.Store, error) {
	if db != nil {
		return db, nil
	}
	url := databaseURL()
	if url == "" {
		return nil, errNoCatalog
	}
	var err error
	db, err = catalog.NewStore(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// loadCatalog reads the catalog from --catalog, falling back to the database.
func loadCatalog(ctx context.Context) ([]catalog.Entry, error) {
	if catalogPath != "" {
		return catalog.LoadFile(catalogPath)
	}
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.LoadAll(ctx)
}

// loadEngine builds a match engine over the configured catalog. It returns
// errNoCatalog when neither a file nor a database was given.
func loadEngine(ctx context.Context) (*match.Engine, error) {
	entries, err := loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	ix := catalog.NewIndex(entries)
	log.Printf("Loaded %d catalog entries", ix.Len())
	return match.NewEngine(ix, cfg.Match), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output opens path for writing, or returns stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
