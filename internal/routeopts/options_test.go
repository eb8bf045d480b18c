package routeopts

import "testing"

func TestDefaultOptionsValid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options should validate, got %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []func(*RoutingOptions){
		func(o *RoutingOptions) { o.Clearance = -1 },
		func(o *RoutingOptions) { o.MaxIters = 0 },
		func(o *RoutingOptions) { o.MaxOffsetTries = 0 },
		func(o *RoutingOptions) { o.OffsetGrowth = 1.0 },
		func(o *RoutingOptions) { o.TurnWeight = -0.1 },
		func(o *RoutingOptions) { o.BackWeight = -0.1 },
		func(o *RoutingOptions) { o.ProximityWeight = -0.1 },
		func(o *RoutingOptions) { o.ProximityMargin = -0.1 },
		func(o *RoutingOptions) { o.Safety = 0 },
		func(o *RoutingOptions) { o.AlgoVersion = "" },
	}
	for i, mutate := range cases {
		o := DefaultOptions()
		mutate(&o)
		if err := o.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestCanonicalJSONIsDeterministicAndRounds(t *testing.T) {
	a := DefaultOptions()
	a.Clearance = 0.20000001
	b := DefaultOptions()
	b.Clearance = 0.2

	aj, err := a.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	bj, err := b.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	if string(aj) != string(bj) {
		t.Errorf("expected rounded options to serialize identically, got %q vs %q", aj, bj)
	}
}
