package main

import (
	"fmt"

	"github.com/astrocart/hyperroute/internal/store"
)

func handleDB(args []string) error {
	if len(args) == 0 || args[0] != "migrate" {
		return fmt.Errorf("db: subcommand required (migrate up|down|status)")
	}
	if len(args) < 2 {
		return fmt.Errorf("db migrate: up, down, or status is required")
	}

	fs := newFlagSet("db migrate")
	dbPath := fs.String("db", "", "path to the catalog database")
	migrationsDir := fs.String("migrations", "data/migrations", "path to the migrations directory")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}

	if *dbPath == "" {
		return fmt.Errorf("--db is required")
	}
	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[1] {
	case "up":
		if err := db.MigrateUp(*migrationsDir); err != nil {
			return err
		}
		fmt.Println("migrated up")
		return nil
	case "down":
		if err := db.MigrateDown(*migrationsDir); err != nil {
			return err
		}
		fmt.Println("migrated down")
		return nil
	case "status":
		version, dirty, err := db.MigrateVersion(*migrationsDir)
		if err != nil {
			return err
		}
		fmt.Printf("version %d, dirty=%v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("db migrate: unknown subcommand %q", args[1])
	}
}
