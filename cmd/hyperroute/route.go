package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/astrocart/hyperroute/internal/catalog"
	"github.com/astrocart/hyperroute/internal/explain"
	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/hyperspace"
	"github.com/astrocart/hyperroute/internal/routeopts"
	"github.com/astrocart/hyperroute/internal/routing"
	"github.com/astrocart/hyperroute/internal/store"
)

// printETA resolves region and prints a hyperspace travel-time estimate for
// a route of the given length, when --region was set. turnScores holds each
// detour decision's turn-penalty score, used to count sharp turns.
func printETA(region string, hyperdriveSpeed float64, length float64, turnScores []float64, turnWeight float64) {
	if region == "" {
		return
	}
	params := hyperspace.DefaultDetourPenaltyParams()
	sharpTurns := 0
	for _, t := range turnScores {
		if turnWeight > 0 && t/turnWeight > 1-params.SharpTurnThreshold {
			sharpTurns++
		}
	}
	mult := hyperspace.DetourPenaltyMultiplier(len(turnScores), sharpTurns, params)
	hours, err := hyperspace.EstimateTravelTimeHours(length, hyperdriveSpeed, hyperspace.ParseRegion(region), mult)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hyperspace estimate unavailable: %v\n", err)
		return
	}
	fmt.Printf("estimated travel time: %.2f hours (region=%s, %d detour(s), %d sharp)\n",
		hours, hyperspace.ParseRegion(region), len(turnScores), sharpTurns)
}

func handleRoute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("route: subcommand required (compute, show, explain, current, clear, prune, list)")
	}
	switch args[0] {
	case "compute":
		return routeCompute(args[1:])
	case "show":
		return routeShow(args[1:])
	case "explain":
		return routeExplain(args[1:])
	case "current":
		return routeCurrent(args[1:])
	case "clear":
		return routeClear(args[1:])
	case "prune":
		return routePrune(args[1:])
	case "list":
		return routeList(args[1:])
	default:
		return fmt.Errorf("route: unknown subcommand %q", args[0])
	}
}

func routeCompute(args []string) error {
	fs := newFlagSet("route compute")
	dbPath := fs.String("db", "", "path to the catalog database")
	from := fs.String("from", "", "origin planet name")
	to := fs.String("to", "", "destination planet name")
	clearance := fs.Float64("clearance", -1, "override the default obstacle clearance")
	maxIters := fs.Int("max-iters", -1, "override the default max detour-insertion iterations")
	region := fs.String("region", "", "galactic region, for a hyperspace travel-time estimate (core, inner, outer, rim)")
	hyperdriveSpeed := fs.Float64("hyperdrive-speed", 1.0, "hyperdrive class speed, distance units per hour at compression 1.0")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, cat, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := routeopts.DefaultOptions()
	if *clearance >= 0 {
		opts.Clearance = *clearance
	}
	if *maxIters > 0 {
		opts.MaxIters = *maxIters
	}

	ctx := context.Background()
	fromPlanet, err := cat.ByName(ctx, *from)
	if err != nil {
		return err
	}
	toPlanet, err := cat.ByName(ctx, *to)
	if err != nil {
		return err
	}

	exclude := map[int64]bool{fromPlanet.ID: true, toPlanet.ID: true}
	ix, err := catalog.ObstacleIndex(ctx, cat, opts.Safety, exclude)
	if err != nil {
		return err
	}

	result, err := routing.Compute(ctx, geometry.Point{X: fromPlanet.X, Y: fromPlanet.Y}, geometry.Point{X: toPlanet.X, Y: toPlanet.Y},
		fromPlanet.ID, toPlanet.ID, ix, opts)
	if err != nil {
		return err
	}

	anchors := map[int]int64{0: fromPlanet.ID, len(result.Waypoints) - 1: toPlanet.ID}
	routeID, err := db.SaveRoute(ctx, fromPlanet.ID, toPlanet.ID, opts, result, anchors)
	if err != nil {
		return err
	}

	fmt.Printf("route %d: %s -> %s, length %.4f, %d detours\n", routeID, *from, *to, result.Length, len(result.Decisions))

	turnScores := make([]float64, len(result.Decisions))
	for i, d := range result.Decisions {
		turnScores[i] = d.ScoreTurn
	}
	printETA(*region, *hyperdriveSpeed, result.Length, turnScores, opts.TurnWeight)
	return nil
}

func routeShow(args []string) error {
	fs := newFlagSet("route show")
	dbPath := fs.String("db", "", "path to the catalog database")
	id := fs.Int64("id", 0, "route id")
	region := fs.String("region", "", "galactic region, for a hyperspace travel-time estimate (core, inner, outer, rim)")
	hyperdriveSpeed := fs.Float64("hyperdrive-speed", 1.0, "hyperdrive class speed, distance units per hour at compression 1.0")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	rec, err := db.GetRoute(ctx, *id)
	if err != nil {
		return err
	}
	wps, err := db.Waypoints(ctx, *id)
	if err != nil {
		return err
	}

	if err := printJSON(struct {
		store.RouteRecord
		Waypoints []store.WaypointRecord `json:"waypoints"`
	}{RouteRecord: rec, Waypoints: wps}); err != nil {
		return err
	}

	if *region != "" {
		decs, err := db.Detours(ctx, *id)
		if err != nil {
			return err
		}
		var opts routeopts.RoutingOptions
		if err := json.Unmarshal([]byte(rec.Options), &opts); err != nil {
			opts = routeopts.DefaultOptions()
		}
		turnScores := make([]float64, len(decs))
		for i, d := range decs {
			turnScores[i] = d.ScoreTurn
		}
		printETA(*region, *hyperdriveSpeed, rec.Length, turnScores, opts.TurnWeight)
	}
	return nil
}

func routeExplain(args []string) error {
	fs := newFlagSet("route explain")
	dbPath := fs.String("db", "", "path to the catalog database")
	id := fs.Int64("id", 0, "route id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, cat, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	view, err := explain.Build(context.Background(), db, cat, *id)
	if err != nil {
		return err
	}
	return printJSON(view)
}

func routeCurrent(args []string) error {
	fs := newFlagSet("route current")
	dbPath := fs.String("db", "", "path to the catalog database")
	from := fs.String("from", "", "origin planet name")
	to := fs.String("to", "", "destination planet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, cat, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	fromPlanet, err := cat.ByName(ctx, *from)
	if err != nil {
		return err
	}
	toPlanet, err := cat.ByName(ctx, *to)
	if err != nil {
		return err
	}

	rec, err := db.GetRouteByPair(ctx, fromPlanet.ID, toPlanet.ID)
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func routeClear(args []string) error {
	fs := newFlagSet("route clear")
	dbPath := fs.String("db", "", "path to the catalog database")
	from := fs.String("from", "", "origin planet name")
	to := fs.String("to", "", "destination planet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, cat, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	fromPlanet, err := cat.ByName(ctx, *from)
	if err != nil {
		return err
	}
	toPlanet, err := cat.ByName(ctx, *to)
	if err != nil {
		return err
	}
	return db.ClearRoute(ctx, fromPlanet.ID, toPlanet.ID)
}

func routePrune(args []string) error {
	fs := newFlagSet("route prune")
	dbPath := fs.String("db", "", "path to the catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.PruneOrphanWaypoints(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d orphan waypoint(s)\n", n)
	return nil
}

func routeList(args []string) error {
	fs := newFlagSet("route list")
	dbPath := fs.String("db", "", "path to the catalog database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openCatalogDB(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.ListRoutes(context.Background())
	if err != nil {
		return err
	}
	return printJSON(recs)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
