package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/astrocart/hyperroute/internal/catalog"
	"github.com/astrocart/hyperroute/internal/store"
	"github.com/astrocart/hyperroute/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, int64, int64) {
	t.Helper()
	db, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.MigrateUp("../../data/migrations"); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}

	ctx := context.Background()
	fromID, err := db.InsertPlanet(ctx, 1, "Alpha", "core", "", 0, 0, 0.1)
	if err != nil {
		t.Fatalf("InsertPlanet: %v", err)
	}
	toID, err := db.InsertPlanet(ctx, 2, "Beta", "core", "", 10, 0, 0.1)
	if err != nil {
		t.Fatalf("InsertPlanet: %v", err)
	}

	cat := catalog.NewSQLiteCatalog(db.DB)
	return NewServer(db, cat), fromID, toID
}

func TestHandleComputeDirectRoute(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, _ := json.Marshal(computeRequest{From: "Alpha", To: "Beta"})
	req := httptest.NewRequest("POST", "/api/routes/compute", bytes.NewReader(body))
	rec := testutil.NewTestRecorder()

	srv.handleCompute(rec, req)
	testutil.AssertStatusCode(t, rec.Code, 200)

	var resp computeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.RouteID == 0 {
		t.Error("expected a non-zero route id")
	}
	if len(resp.Waypoints) != 2 {
		t.Errorf("expected a direct 2-waypoint route, got %d", len(resp.Waypoints))
	}
}

func TestHandleComputeRejectsWrongMethod(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/routes/compute", nil)
	rec := testutil.NewTestRecorder()
	srv.handleCompute(rec, req)
	testutil.AssertStatusCode(t, rec.Code, 405)
}

func TestHandleCurrentRequiresParams(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/routes/current", nil)
	rec := testutil.NewTestRecorder()
	srv.handleCurrent(rec, req)
	testutil.AssertStatusCode(t, rec.Code, 400)
}

func TestParseRouteIDPath(t *testing.T) {
	id, explainMode, err := parseRouteIDPath("/api/routes/42")
	testutil.AssertNoError(t, err)
	if id != 42 || explainMode {
		t.Errorf("got id=%d explain=%v, want id=42 explain=false", id, explainMode)
	}

	id, explainMode, err = parseRouteIDPath("/api/routes/42/explain")
	testutil.AssertNoError(t, err)
	if id != 42 || !explainMode {
		t.Errorf("got id=%d explain=%v, want id=42 explain=true", id, explainMode)
	}

	_, _, err = parseRouteIDPath("/api/routes/")
	testutil.AssertError(t, err)
}
