package main

import (
	"context"
	"fmt"
)

func handleWaypoint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("waypoint: subcommand required (add, list, link, unlink)")
	}
	switch args[0] {
	case "add":
		return waypointAdd(args[1:])
	case "list":
		return waypointList(args[1:])
	case "link":
		return waypointLink(args[1:])
	case "unlink":
		return waypointUnlink(args[1:])
	default:
		return fmt.Errorf("waypoint: unknown subcommand %q", args[0])
	}
}

func waypointAdd(args []string) error {
	fs := newFlagSet("waypoint add")
	dbPath := fs.String("db", "", "path to the catalog database")
	x := fs.Float64("x", 0, "x coordinate")
	y := fs.Float64("y", 0, "y coordinate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	wp, err := db.AddWaypoint(context.Background(), *x, *y)
	if err != nil {
		return err
	}
	fmt.Printf("waypoint %d: (%.6f, %.6f)\n", wp.ID, wp.X, wp.Y)
	return nil
}

func waypointList(args []string) error {
	fs := newFlagSet("waypoint list")
	dbPath := fs.String("db", "", "path to the catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	wps, err := db.ListWaypoints(context.Background())
	if err != nil {
		return err
	}
	return printJSON(wps)
}

func waypointLink(args []string) error {
	fs := newFlagSet("waypoint link")
	dbPath := fs.String("db", "", "path to the catalog database")
	waypointID := fs.Int64("waypoint", 0, "waypoint id")
	planetID := fs.Int64("planet", 0, "planet id")
	role := fs.String("role", "near", "anchor link role (anchor, near, obstacle, avoid)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.LinkWaypoint(context.Background(), *waypointID, *planetID, *role)
}

func waypointUnlink(args []string) error {
	fs := newFlagSet("waypoint unlink")
	dbPath := fs.String("db", "", "path to the catalog database")
	waypointID := fs.Int64("waypoint", 0, "waypoint id")
	planetID := fs.Int64("planet", 0, "planet id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.UnlinkWaypoint(context.Background(), *waypointID, *planetID)
}
