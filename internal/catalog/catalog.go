// Package catalog resolves planet identifiers and exposes planets as
// routing obstacles. It is the boundary between the static galactic
// gazetteer (loaded once, rarely written) and the routing engine, which
// only ever sees Obstacle values.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routing"
)

// Planet is a single entry in the galactic gazetteer. Field names mirror
// the columns carried over from the source dataset.
//
// Radius is the planet's physical size, used only for rendering; it plays
// no part in routing. The obstacle disc the routing engine avoids has a
// uniform radius equal to the route's safety option, not this column — see
// Obstacle.
type Planet struct {
	ID     int64
	Name   string
	Region string
	X, Y   float64
	Radius float64
}

// Obstacle converts a planet into the routing package's obstacle
// representation, with the obstacle disc's radius fixed at safety for
// every planet regardless of physical size. safety is one compute's
// options.Safety value; the same planet yields a larger or smaller
// obstacle depending on which route is being computed.
func (p Planet) Obstacle(safety float64) routing.Obstacle {
	return routing.Obstacle{
		ID:     p.ID,
		Center: geometry.Point{X: p.X, Y: p.Y},
		Radius: safety,
	}
}

// Resolver looks planets up by name or id. The explain and api packages
// depend on this interface, not on a concrete database, so that tests can
// supply an in-memory fake.
type Resolver interface {
	ByID(ctx context.Context, id int64) (Planet, error)
	ByName(ctx context.Context, name string) (Planet, error)
}

// Reader additionally exposes bulk reads used to build an obstacle index
// for a route computation.
type Reader interface {
	Resolver
	All(ctx context.Context) ([]Planet, error)
}

// SQLiteCatalog is a Reader backed by the planets table.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog wraps an existing database handle. It does not own the
// handle's lifecycle; callers are responsible for closing it.
func NewSQLiteCatalog(db *sql.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db: db}
}

const planetSelect = `SELECT id, name, region, x, y, radius FROM planets`

func scanPlanet(row interface{ Scan(dest ...any) error }) (Planet, error) {
	var p Planet
	if err := row.Scan(&p.ID, &p.Name, &p.Region, &p.X, &p.Y, &p.Radius); err != nil {
		return Planet{}, err
	}
	return p, nil
}

// ByID looks up a planet by its surrogate id.
func (c *SQLiteCatalog) ByID(ctx context.Context, id int64) (Planet, error) {
	row := c.db.QueryRowContext(ctx, planetSelect+` WHERE id = ?`, id)
	p, err := scanPlanet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Planet{}, fmt.Errorf("catalog: no planet with id %d: %w", id, err)
		}
		return Planet{}, fmt.Errorf("catalog: lookup by id %d: %w", id, err)
	}
	return p, nil
}

// ByName looks up a planet by its canonical name.
func (c *SQLiteCatalog) ByName(ctx context.Context, name string) (Planet, error) {
	row := c.db.QueryRowContext(ctx, planetSelect+` WHERE name = ?`, name)
	p, err := scanPlanet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Planet{}, fmt.Errorf("catalog: no planet named %q: %w", name, err)
		}
		return Planet{}, fmt.Errorf("catalog: lookup by name %q: %w", name, err)
	}
	return p, nil
}

// All returns every planet in the catalog, for building a route's
// obstacle index.
func (c *SQLiteCatalog) All(ctx context.Context) ([]Planet, error) {
	rows, err := c.db.QueryContext(ctx, planetSelect)
	if err != nil {
		return nil, fmt.Errorf("catalog: list planets: %w", err)
	}
	defer rows.Close()

	var planets []Planet
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan planet row: %w", err)
		}
		planets = append(planets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate planets: %w", err)
	}
	return planets, nil
}

// ObstacleIndex builds a routing.Index over every planet in the catalog
// except those in excludeIDs, giving every obstacle the same radius:
// safety. This is the index's sole source of collision geometry; no
// per-planet column overrides it.
func ObstacleIndex(ctx context.Context, r Reader, safety float64, excludeIDs map[int64]bool) (*routing.Index, error) {
	planets, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	obstacles := make([]routing.Obstacle, 0, len(planets))
	for _, p := range planets {
		if excludeIDs[p.ID] {
			continue
		}
		obstacles = append(obstacles, p.Obstacle(safety))
	}
	return routing.NewIndex(obstacles), nil
}
