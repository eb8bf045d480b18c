package routing

import "github.com/astrocart/hyperroute/internal/geometry"

// Obstacle is a circular exclusion zone the router must detour around —
// typically a planet's gravity well or a charted hazard.
type Obstacle struct {
	ID     int64
	Center geometry.Point
	Radius float64
}

// Index is a read-only view over the obstacles a route must avoid. It is
// small enough (a system's worth of planets, not a galaxy's) that a plain
// slice scan beats any spatial index.
type Index struct {
	obstacles []Obstacle
}

// NewIndex builds an Index over the given obstacles.
func NewIndex(obstacles []Obstacle) *Index {
	cp := make([]Obstacle, len(obstacles))
	copy(cp, obstacles)
	return &Index{obstacles: cp}
}

// All returns the obstacles in the index, in the order they were supplied.
func (ix *Index) All() []Obstacle {
	return ix.obstacles
}

// Len reports how many obstacles the index holds.
func (ix *Index) Len() int {
	return len(ix.obstacles)
}
