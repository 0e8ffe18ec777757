package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"cubesphere/internal/geometry/vector"
	"cubesphere/internal/grid"
	"cubesphere/internal/sim"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	g := grid.MustNew(8)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := sim.New(sim.Config{Grid: g, TickHz: 100, Logger: quiet})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()

	srv := httptest.NewServer(NewServer(g, eng, quiet).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	if code := getJSON(t, srv, "/health", nil); code != http.StatusOK {
		t.Errorf("status = %d", code)
	}
}

func TestGridInfo(t *testing.T) {
	srv := newTestServer(t)
	var got gridInfo
	getJSON(t, srv, "/grid", &got)
	want := gridInfo{Resolution: 8, Spacing: 0.25, CellsPerFace: 64, PointsPerFace: 81, NumCells: 384, NumPoints: 486}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid info mismatch (-want +got):\n%s", diff)
	}
}

func TestCell(t *testing.T) {
	srv := newTestServer(t)

	var byIndex, byCoord cellInfo
	if code := getJSON(t, srv, "/cell?index=70", &byIndex); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if want := (grid.CellCoord{Face: 1, U: 6, V: 0}); byIndex.Cell != want {
		t.Errorf("cell = %v, want %v", byIndex.Cell, want)
	}
	getJSON(t, srv, "/cell?face=1&u=6&v=0", &byCoord)
	if diff := cmp.Diff(byIndex, byCoord); diff != "" {
		t.Errorf("index and coord lookups differ (-index +coord):\n%s", diff)
	}
	if m := byCoord.SphereCenter.Magnitude(); m < 1-1e-9 || m > 1+1e-9 {
		t.Errorf("sphere center magnitude = %v", m)
	}

	for _, q := range []string{
		"index=384", "index=-1", "index=x",
		"face=6&u=0&v=0", "face=0&u=8&v=0", "face=0&u=0",
	} {
		if code := getJSON(t, srv, "/cell?"+q, nil); code != http.StatusBadRequest {
			t.Errorf("/cell?%s status = %d, want 400", q, code)
		}
	}
}

func TestLocate(t *testing.T) {
	srv := newTestServer(t)
	var got cellInfo
	getJSON(t, srv, "/locate?lat=0&lon=0", &got)
	if want := (grid.CellCoord{Face: 1, U: 4, V: 4}); got.Cell != want {
		t.Errorf("cell = %v, want %v", got.Cell, want)
	}
	if got.Index != 64+4*8+4 {
		t.Errorf("index = %d", got.Index)
	}

	// Longitude wraps.
	var wrapped cellInfo
	getJSON(t, srv, "/locate?lat=0&lon=360", &wrapped)
	if wrapped.Cell != got.Cell {
		t.Errorf("lon 360 located %v, want %v", wrapped.Cell, got.Cell)
	}

	for _, q := range []string{"lat=91&lon=0", "lat=0", "lat=NaN&lon=0"} {
		if code := getJSON(t, srv, "/locate?"+q, nil); code != http.StatusBadRequest {
			t.Errorf("/locate?%s status = %d, want 400", q, code)
		}
	}
}

func TestNeighbors(t *testing.T) {
	srv := newTestServer(t)

	var all struct {
		Cell      grid.CellCoord `json:"cell"`
		Neighbors []neighborInfo `json:"neighbors"`
	}
	getJSON(t, srv, "/neighbors?face=0&u=0&v=0", &all)
	var cells []grid.CellCoord
	for _, n := range all.Neighbors {
		cells = append(cells, n.Cell)
	}
	want := []grid.CellCoord{
		{Face: 4, U: 0, V: 0},
		{Face: 4, U: 0, V: 1},
		{Face: 0, U: 1, V: 0},
		{Face: 0, U: 1, V: 1},
		{Face: 0, U: 0, V: 1},
		{Face: 3, U: 7, V: 1},
		{Face: 3, U: 7, V: 0},
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("neighbors mismatch (-want +got):\n%s", diff)
	}
	if all.Neighbors[0].Direction != "N" || all.Neighbors[0].Index != 4*64 {
		t.Errorf("first neighbor = %+v", all.Neighbors[0])
	}

	var one struct {
		Neighbors []neighborInfo `json:"neighbors"`
	}
	getJSON(t, srv, "/neighbors?face=0&u=0&v=0&dir=E", &one)
	if len(one.Neighbors) != 1 || one.Neighbors[0].Cell != (grid.CellCoord{Face: 0, U: 1, V: 0}) {
		t.Errorf("dir=E = %+v", one.Neighbors)
	}

	// No neighbor across the corner.
	one.Neighbors = nil
	getJSON(t, srv, "/neighbors?face=0&u=0&v=0&dir=NW", &one)
	if len(one.Neighbors) != 0 {
		t.Errorf("dir=NW = %+v, want none", one.Neighbors)
	}

	if code := getJSON(t, srv, "/neighbors?face=0&u=0&v=0&dir=UP", nil); code != http.StatusBadRequest {
		t.Errorf("bad dir status = %d, want 400", code)
	}
}

// h is cos(π/4).
const h = 0.7071067811865476

func TestConvert(t *testing.T) {
	srv := newTestServer(t)

	type result struct {
		Cube   vector.Vec3    `json:"cube"`
		Sphere vector.Vec3    `json:"sphere"`
		Cell   grid.CellCoord `json:"cell"`
		Index  int            `json:"index"`
	}

	var fromCube result
	getJSON(t, srv, "/convert?x=-2&y=0.6&z=-1.46", &fromCube)
	if !fromCube.Cube.IsAlmostEqual(vector.NewVec3(-1, 0.3, -0.73), 1e-12) {
		t.Errorf("cube = %v, want point projected onto x=-1", fromCube.Cube)
	}
	if want := (grid.CellCoord{Face: 0, U: 6, V: 2}); fromCube.Cell != want {
		t.Errorf("cell = %v, want %v", fromCube.Cell, want)
	}

	var fromSphere result
	getJSON(t, srv, "/convert?x=0&y=0&z=-2&from=sphere", &fromSphere)
	if !fromSphere.Sphere.IsAlmostEqual(vector.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("sphere = %v", fromSphere.Sphere)
	}
	if !fromSphere.Cube.IsAlmostEqual(vector.NewVec3(0, 0, -1), 1e-9) {
		t.Errorf("cube = %v", fromSphere.Cube)
	}
	if want := (grid.CellCoord{Face: 1, U: 4, V: 4}); fromSphere.Cell != want {
		t.Errorf("cell = %v, want %v", fromSphere.Cell, want)
	}

	// Extreme but finite input still lands on the unit sphere.
	for q, want := range map[string]vector.Vec3{
		"x=1e200&y=1e200&z=0&from=sphere": vector.NewVec3(h, h, 0),
		"x=1e-200&y=0&z=0&from=sphere":    vector.UnitX,
		"x=0&y=-1e-300&z=0":               vector.NewVec3(0, -1, 0),
	} {
		var r result
		if code := getJSON(t, srv, "/convert?"+q, &r); code != http.StatusOK {
			t.Errorf("/convert?%s status = %d, want 200", q, code)
			continue
		}
		if !r.Sphere.IsAlmostEqual(want, 1e-12) {
			t.Errorf("/convert?%s sphere = %v, want %v", q, r.Sphere, want)
		}
	}

	for _, q := range []string{"x=0&y=0&z=0", "x=1&y=0", "x=1&y=0&z=0&from=plane", "x=Inf&y=0&z=0"} {
		if code := getJSON(t, srv, "/convert?"+q, nil); code != http.StatusBadRequest {
			t.Errorf("/convert?%s status = %d, want 400", q, code)
		}
	}
}

func waitForState(t *testing.T, srv *httptest.Server, cond func(sim.WorldState) bool) sim.WorldState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var st sim.WorldState
		if getJSON(t, srv, "/state", &st) == http.StatusOK && cond(st) {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("state condition not reached")
	return sim.WorldState{}
}

func TestCommands(t *testing.T) {
	srv := newTestServer(t)

	post := func(path, body string) int {
		t.Helper()
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := post("/command/spawn", `{"lat":10,"lon":20,"headingDeg":90,"speedDegPerSec":5}`); code != http.StatusOK {
		t.Fatalf("spawn status = %d", code)
	}
	st := waitForState(t, srv, func(st sim.WorldState) bool { return len(st.Bodies) == 1 })
	if b := st.Bodies[0]; b.Mass != 1 || b.CellIndex < 0 || b.CellIndex >= 384 {
		t.Errorf("body = %+v", b)
	}

	if code := post("/command/hold", ""); code != http.StatusOK {
		t.Errorf("hold status = %d", code)
	}
	waitForState(t, srv, func(st sim.WorldState) bool { return st.Held })

	if code := post("/command/clear", ""); code != http.StatusOK {
		t.Errorf("clear status = %d", code)
	}
	waitForState(t, srv, func(st sim.WorldState) bool { return len(st.Bodies) == 0 })

	for path, body := range map[string]string{
		"/command/fly":   "",
		"/command/spawn": `{"lat":100}`,
	} {
		if code := post(path, body); code != http.StatusBadRequest {
			t.Errorf("POST %s %s status = %d, want 400", path, body, code)
		}
	}
	if code := post("/command/spawn", "{"); code != http.StatusBadRequest {
		t.Errorf("malformed spawn status = %d, want 400", code)
	}
	if code := getJSON(t, srv, "/command/hold", nil); code != http.StatusMethodNotAllowed {
		t.Errorf("GET /command/hold status = %d, want 405", code)
	}
}

func TestWebsocket(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var st sim.WorldState
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("first frame: %v", err)
	}

	spawn := commandBody{Type: "spawn", Lat: -20, Lon: 45, HeadingDeg: 0, SpeedDegPerSec: 3, Mass: 2}
	if err := conn.WriteJSON(spawn); err != nil {
		t.Fatalf("write: %v", err)
	}
	for len(st.Bodies) == 0 {
		st = sim.WorldState{}
		if err := conn.ReadJSON(&st); err != nil {
			t.Fatalf("waiting for spawned body: %v", err)
		}
	}
	if st.Bodies[0].Mass != 2 {
		t.Errorf("body = %+v", st.Bodies[0])
	}

	// A bad command gets an error frame; the connection stays open.
	if err := conn.WriteJSON(commandBody{Type: "warp"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for error frame: %v", err)
		}
		if e, ok := msg["error"].(string); ok {
			if !strings.Contains(e, "warp") {
				t.Errorf("error = %q", e)
			}
			break
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t)
	getJSON(t, srv, "/grid", nil)
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `cubesphere_http_requests_total{route="/grid"}`) {
		t.Error("metrics missing /grid request counter")
	}
}
