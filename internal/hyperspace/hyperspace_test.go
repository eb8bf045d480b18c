package hyperspace

import "testing"

func TestParseRegionKnownLabels(t *testing.T) {
	cases := map[string]Region{
		"core":     RegionCore,
		"inner":    RegionInner,
		"outer":    RegionOuter,
		"rim":      RegionRim,
		"nowhere":  RegionUnknown,
	}
	for label, want := range cases {
		if got := ParseRegion(label); got != want {
			t.Errorf("ParseRegion(%q) = %v, want %v", label, got, want)
		}
	}
}

func TestDetourPenaltyMultiplierNoDetours(t *testing.T) {
	got := DetourPenaltyMultiplier(0, 0, DefaultDetourPenaltyParams())
	if got != 1.0 {
		t.Errorf("multiplier with no detours = %v, want 1.0", got)
	}
}

func TestDetourPenaltyMultiplierIncreasesWithSharpTurns(t *testing.T) {
	params := DefaultDetourPenaltyParams()
	plain := DetourPenaltyMultiplier(2, 0, params)
	sharp := DetourPenaltyMultiplier(2, 2, params)
	if sharp <= plain {
		t.Errorf("sharp-turn multiplier %v should exceed plain multiplier %v", sharp, plain)
	}
}

func TestEstimateTravelTimeHoursRejectsBadInputs(t *testing.T) {
	if _, err := EstimateTravelTimeHours(10, 0, RegionCore, 1); err == nil {
		t.Error("expected error for zero class speed")
	}
	if _, err := EstimateTravelTimeHours(-1, 10, RegionCore, 1); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestEstimateTravelTimeHoursCoreFasterThanRim(t *testing.T) {
	core, err := EstimateTravelTimeHours(100, 10, RegionCore, 1)
	if err != nil {
		t.Fatalf("EstimateTravelTimeHours: %v", err)
	}
	rim, err := EstimateTravelTimeHours(100, 10, RegionRim, 1)
	if err != nil {
		t.Fatalf("EstimateTravelTimeHours: %v", err)
	}
	if core >= rim {
		t.Errorf("core transit time %v should be less than rim transit time %v", core, rim)
	}
}
