package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNeighbor(t *testing.T) {
	g := MustNew(8)
	tests := []struct {
		from   CellCoord
		dir    Direction
		want   CellCoord
		wantOK bool
	}{
		// cube corners
		{CellCoord{2, 7, 0}, NorthEast, CellCoord{}, false},
		{CellCoord{0, 0, 0}, NorthWest, CellCoord{}, false},
		{CellCoord{4, 7, 7}, SouthEast, CellCoord{}, false},

		// same face
		{CellCoord{1, 3, 3}, East, CellCoord{1, 4, 3}, true},

		{CellCoord{0, 7, 3}, East, CellCoord{1, 0, 3}, true},
		{CellCoord{0, 2, 7}, SouthEast, CellCoord{5, 0, 4}, true},
		{CellCoord{0, 6, 0}, NorthWest, CellCoord{4, 0, 5}, true},
		{CellCoord{0, 0, 5}, SouthWest, CellCoord{3, 7, 6}, true},
		{CellCoord{0, 2, 0}, NorthWest, CellCoord{4, 0, 1}, true},

		{CellCoord{1, 7, 3}, SouthEast, CellCoord{2, 0, 4}, true},
		{CellCoord{1, 3, 0}, North, CellCoord{4, 3, 7}, true},
		{CellCoord{1, 0, 3}, West, CellCoord{0, 7, 3}, true},

		{CellCoord{2, 7, 5}, NorthEast, CellCoord{3, 0, 4}, true},
		{CellCoord{2, 0, 5}, West, CellCoord{1, 7, 5}, true},
		{CellCoord{2, 6, 7}, SouthWest, CellCoord{5, 7, 5}, true},
		{CellCoord{2, 6, 0}, NorthEast, CellCoord{4, 7, 0}, true},

		{CellCoord{3, 0, 5}, SouthWest, CellCoord{2, 7, 6}, true},
		{CellCoord{3, 7, 5}, SouthEast, CellCoord{0, 0, 6}, true},
		{CellCoord{3, 5, 0}, NorthEast, CellCoord{4, 1, 0}, true},
		{CellCoord{3, 1, 7}, SouthWest, CellCoord{5, 7, 7}, true},

		{CellCoord{4, 3, 0}, NorthWest, CellCoord{3, 5, 0}, true},
		{CellCoord{4, 0, 5}, SouthWest, CellCoord{0, 6, 0}, true},
		{CellCoord{4, 7, 2}, NorthEast, CellCoord{2, 5, 1}, true},
		{CellCoord{4, 2, 7}, SouthEast, CellCoord{1, 3, 0}, true},

		// crossings that mirror the moving coordinate
		{CellCoord{3, 5, 0}, North, CellCoord{4, 2, 0}, true},
		{CellCoord{3, 5, 7}, South, CellCoord{5, 2, 7}, true},
		{CellCoord{4, 5, 0}, North, CellCoord{3, 2, 0}, true},
		{CellCoord{5, 5, 7}, South, CellCoord{3, 2, 7}, true},
		{CellCoord{5, 0, 7}, SouthEast, CellCoord{3, 6, 7}, true},
	}
	for _, tc := range tests {
		got, ok := g.Neighbor(tc.from, tc.dir)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("Neighbor(%v, %v) = %v, %v; want %v, %v", tc.from, tc.dir, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNeighborInvalidDirection(t *testing.T) {
	g := MustNew(8)
	if _, ok := g.Neighbor(CellCoord{0, 3, 3}, Direction(8)); ok {
		t.Error("Neighbor with direction 8 reported a neighbor")
	}
}

func TestNeighborCellCoords(t *testing.T) {
	g := MustNew(8)

	got := g.NeighborCellCoords(CellCoord{0, 0, 0})
	want := []CellCoord{
		{4, 0, 0}, // N
		{4, 0, 1}, // NE
		{0, 1, 0}, // E
		{0, 1, 1}, // SE
		{0, 0, 1}, // S
		{3, 7, 1}, // SW
		{3, 7, 0}, // W
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NeighborCellCoords mismatch (-want +got):\n%s", diff)
	}

	idx := g.NeighborCellIndexes(CellCoord{0, 0, 0})
	wantIdx := make([]int, len(want))
	for i, cc := range want {
		wantIdx[i] = g.CellCoordToCellIndex(cc)
	}
	if diff := cmp.Diff(wantIdx, idx); diff != "" {
		t.Errorf("NeighborCellIndexes mismatch (-want +got):\n%s", diff)
	}
}

func TestNeighborsAlwaysValid(t *testing.T) {
	g := MustNew(8)
	last := g.Resolution() - 1
	for _, cc := range g.CellCoords() {
		ns := g.NeighborCellCoords(cc)
		corner := (cc.U == 0 || cc.U == last) && (cc.V == 0 || cc.V == last)
		want := 8
		if corner {
			want = 7
		}
		if len(ns) != want {
			t.Errorf("%v has %d neighbors, want %d", cc, len(ns), want)
		}
		seen := make(map[CellCoord]bool)
		for _, n := range ns {
			if !g.Valid(n) {
				t.Errorf("%v has invalid neighbor %v", cc, n)
			}
			if n == cc {
				t.Errorf("%v is its own neighbor", cc)
			}
			seen[n] = true
		}
		if len(seen) != len(ns) {
			t.Errorf("%v has duplicate neighbors %v", cc, ns)
		}
	}
}

func TestDirection(t *testing.T) {
	for d := Direction(0); d < NumDirections; d++ {
		parsed, err := ParseDirection(d.String())
		if err != nil || parsed != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), parsed, err)
		}
	}
	if du, dv := SouthWest.Offset(); du != -1 || dv != 1 {
		t.Errorf("SouthWest.Offset() = (%d, %d), want (-1, 1)", du, dv)
	}
	if _, err := ParseDirection("UP"); err == nil {
		t.Error("ParseDirection(UP) succeeded")
	}
	if s := Direction(9).String(); s != "Direction(9)" {
		t.Errorf("Direction(9).String() = %q", s)
	}
}
