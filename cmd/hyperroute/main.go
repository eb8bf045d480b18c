// Command hyperroute computes and inspects hyperspace routes between
// planets stored in a local catalog database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/astrocart/hyperroute/internal/catalog"
	"github.com/astrocart/hyperroute/internal/store"
	"github.com/astrocart/hyperroute/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hyperroute:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "route":
		return handleRoute(args[1:])
	case "waypoint":
		return handleWaypoint(args[1:])
	case "db":
		return handleDB(args[1:])
	case "serve":
		return handleServe(args[1:])
	case "version":
		fmt.Printf("hyperroute %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `hyperroute - hyperspace route planning and catalog management

Usage:
  hyperroute route compute --db PATH --from NAME --to NAME [--clearance F] [--max-iters N]
                            [--region core|inner|outer|rim] [--hyperdrive-speed F]
  hyperroute route show --db PATH --id ID [--region core|inner|outer|rim] [--hyperdrive-speed F]
  hyperroute route explain --db PATH --id ID
  hyperroute route current --db PATH --from NAME --to NAME
  hyperroute route clear --db PATH --from NAME --to NAME
  hyperroute route prune --db PATH
  hyperroute route list --db PATH

  hyperroute waypoint add --db PATH --x F --y F
  hyperroute waypoint list --db PATH
  hyperroute waypoint link --db PATH --waypoint ID --planet ID
  hyperroute waypoint unlink --db PATH --waypoint ID --planet ID

  hyperroute db migrate up --db PATH --migrations DIR
  hyperroute db migrate down --db PATH --migrations DIR
  hyperroute db migrate status --db PATH --migrations DIR

  hyperroute serve --db PATH [--listen ADDR]

  hyperroute version
`)
}

func handleServe(args []string) error {
	fs := newFlagSet("serve")
	dbPath := fs.String("db", "", "path to the catalog database")
	listen := fs.String("listen", ":8080", "HTTP listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return serveHTTP(*dbPath, *listen)
}

// openCatalogDB is a small shared helper: every subcommand needs a
// database handle and, for anything touching routes, a catalog reader
// over the same handle.
func openCatalogDB(path string) (*store.DB, catalog.Reader, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("--db is required")
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return db, catalog.NewSQLiteCatalog(db.DB), nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs
}
