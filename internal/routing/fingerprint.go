package routing

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/astrocart/hyperroute/internal/geometry"
)

// roundCoord rounds a value to six decimal places so that quantities
// which differ only by floating-point noise fingerprint identically.
func roundCoord(f float64) float64 {
	const scale = 1e6
	return math.Round(f*scale) / scale
}

// Fingerprint returns a stable, hex-encoded 64-bit identity for a
// computed detour waypoint. It hashes the full decision that produced
// the point — the algorithm version, the obstacle it was routed around,
// that obstacle's rounded center, the safety and clearance in force, the
// direction it was tried in, the offset used, and the point's own
// rounded coordinates — not just its coordinates.
//
// Hashing only (x, y) would conflate two points that happen to land in
// the same place but were computed for unrelated obstacles, under
// different options, or by a different algorithm version; fingerprinting
// applies only to waypoints this function actually produces a tuple for
// — never to route endpoints, which are planets, not computed waypoints.
func Fingerprint(algoVersion string, obstacleID int64, obstacleCenter geometry.Point, safety, clearance float64, dirTag int, offset float64, w geometry.Point) string {
	buf := fmt.Appendf(nil, "%s|%d|%.6f|%.6f|%.6f|%.6f|%d|%.6f|%.6f|%.6f",
		algoVersion,
		obstacleID,
		roundCoord(obstacleCenter.X),
		roundCoord(obstacleCenter.Y),
		safety,
		clearance,
		dirTag,
		roundCoord(offset),
		roundCoord(w.X),
		roundCoord(w.Y),
	)
	h := xxhash.Sum64(buf)
	return fmt.Sprintf("%016x", h)
}
