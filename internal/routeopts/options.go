// Package routeopts defines the tunable parameters of a route computation
// and their defaults, in the spirit of the ambient tuning config the rest
// of the module follows: a fully-populated struct with a Validate method
// and a canonical JSON form for persistence and comparison.
//
// Unlike a sparse override layer, RoutingOptions is always fully
// specified by the time it reaches the routing engine — every field has a
// concrete value, either supplied by the caller or filled in from
// DefaultOptions. There is deliberately no pointer-optional-field layer
// here: a route computation is a one-shot request, not a long-lived
// config that gets progressively overridden from multiple sources.
package routeopts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// RoutingOptions tunes how the routing engine detours around obstacles.
type RoutingOptions struct {
	// Clearance is the extra distance, in the same units as planet
	// coordinates, added to an obstacle's radius when placing detour
	// candidates. It is not part of the collision test, which uses the
	// obstacle radius alone.
	Clearance float64 `json:"clearance"`
	// MaxIters bounds how many detour-insertion passes the engine will
	// run before giving up.
	MaxIters int `json:"max_iters"`
	// MaxOffsetTries bounds how many growing offsets the candidate
	// generator will try per collision before giving up on that
	// collision.
	MaxOffsetTries int `json:"max_offset_tries"`
	// OffsetGrowth is the multiplicative factor applied to the detour
	// offset on each retry.
	OffsetGrowth float64 `json:"offset_growth"`
	// TurnWeight scales the turn-angle penalty in candidate scoring.
	TurnWeight float64 `json:"turn_weight"`
	// BackWeight scales the backtracking penalty in candidate scoring.
	BackWeight float64 `json:"back_weight"`
	// ProximityWeight scales the penalty for passing close to other
	// obstacles.
	ProximityWeight float64 `json:"proximity_weight"`
	// ProximityMargin is the width of the soft proximity warning band
	// beyond Safety.
	ProximityMargin float64 `json:"proximity_margin"`
	// Safety is the obstacle radius, in the same units as planet
	// coordinates, applied uniformly to every planet in the catalog for
	// the duration of one compute — not a per-planet trait.
	Safety float64 `json:"safety"`
	// AlgoVersion tags the routing algorithm revision that produced a
	// route, persisted with it and folded into the waypoint fingerprint
	// so that two routes computed under different algorithm versions
	// never share a fingerprint by coincidence.
	AlgoVersion string `json:"algo_version"`
}

// DefaultOptions returns the engine's defaults, mirroring the constants
// the original route-options default carried.
func DefaultOptions() RoutingOptions {
	return RoutingOptions{
		Clearance:       0.2,
		MaxIters:        32,
		MaxOffsetTries:  6,
		OffsetGrowth:    1.4,
		TurnWeight:      0.8,
		BackWeight:      3.0,
		ProximityWeight: 1.5,
		ProximityMargin: 0.5,
		Safety:          1.0,
		AlgoVersion:     "v1",
	}
}

// Validate checks that every field is within a sane range, returning a
// descriptive error for the first violation found.
func (o RoutingOptions) Validate() error {
	switch {
	case o.Clearance < 0:
		return fmt.Errorf("clearance must be >= 0, got %v", o.Clearance)
	case o.MaxIters <= 0:
		return fmt.Errorf("max_iters must be > 0, got %v", o.MaxIters)
	case o.MaxOffsetTries <= 0:
		return fmt.Errorf("max_offset_tries must be > 0, got %v", o.MaxOffsetTries)
	case o.OffsetGrowth <= 1.0:
		return fmt.Errorf("offset_growth must be > 1.0, got %v", o.OffsetGrowth)
	case o.TurnWeight < 0:
		return fmt.Errorf("turn_weight must be >= 0, got %v", o.TurnWeight)
	case o.BackWeight < 0:
		return fmt.Errorf("back_weight must be >= 0, got %v", o.BackWeight)
	case o.ProximityWeight < 0:
		return fmt.Errorf("proximity_weight must be >= 0, got %v", o.ProximityWeight)
	case o.ProximityMargin < 0:
		return fmt.Errorf("proximity_margin must be >= 0, got %v", o.ProximityMargin)
	case o.Safety <= 0:
		return fmt.Errorf("safety must be > 0, got %v", o.Safety)
	case o.AlgoVersion == "":
		return fmt.Errorf("algo_version must not be empty")
	}
	return nil
}

// roundTo6 rounds a float64 to six decimal places, half away from zero,
// matching the precision used for fingerprinting and canonical persistence.
func roundTo6(f float64) float64 {
	const scale = 1e6
	return float64(int64(f*scale+sign(f)*0.5)) / scale
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// CanonicalJSON renders o as JSON with sorted keys and every float
// rounded to six decimal places, so two options that are semantically
// equal always serialize to byte-identical text. This lets the
// persistence layer compare options by a plain string/bytes equality
// check instead of deep-comparing decoded structs.
func (o RoutingOptions) CanonicalJSON() ([]byte, error) {
	rounded := RoutingOptions{
		Clearance:       roundTo6(o.Clearance),
		MaxIters:        o.MaxIters,
		MaxOffsetTries:  o.MaxOffsetTries,
		OffsetGrowth:    roundTo6(o.OffsetGrowth),
		TurnWeight:      roundTo6(o.TurnWeight),
		BackWeight:      roundTo6(o.BackWeight),
		ProximityWeight: roundTo6(o.ProximityWeight),
		ProximityMargin: roundTo6(o.ProximityMargin),
		Safety:          roundTo6(o.Safety),
		AlgoVersion:     o.AlgoVersion,
	}

	// Marshal through a map so keys come out lexicographically sorted;
	// encoding/json already sorts map keys on encode.
	raw, err := json.Marshal(rounded)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("canonicalize options: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range sortedKeys(m) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(m[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
