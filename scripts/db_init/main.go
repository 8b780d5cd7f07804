package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"

	dbfs "github.com/garnizeh/badgeclient/db"
	"github.com/garnizeh/badgeclient/internal/config"
	"github.com/garnizeh/badgeclient/internal/db"
)

func main() {
	backend := flag.Bool("backend", false, "Initialize the reference backend database instead of the session database")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	path, migrations := cfg.DatabasePath, fs.FS(dbfs.Migrations)
	if *backend {
		path, migrations = cfg.Server.DatabasePath, dbfs.BackendMigrations
	}

	database, err := db.New(ctx, path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database %s initialized successfully.\n", path)
}
