package layout

import "testing"

func TestGenerateSeatIDs(t *testing.T) {
	for _, spec := range Zones {
		grid := Generate(spec.Prefix, spec.SeatCount, spec.SeatsPerRow)
		seen := make(map[Cell]bool)
		var order []Cell
		for _, row := range grid {
			for _, cell := range row {
				if !cell.IsSeat() {
					continue
				}
				if seen[cell] {
					t.Fatalf("zone %s: duplicate seat id %s", spec.Prefix, cell)
				}
				seen[cell] = true
				order = append(order, cell)
			}
		}
		if len(order) != spec.SeatCount {
			t.Fatalf("zone %s: expected %d seats, got %d", spec.Prefix, spec.SeatCount, len(order))
		}
		want := SeatIDs(spec.Prefix)
		for i, id := range want {
			if string(order[i]) != id {
				t.Fatalf("zone %s: seat %d expected %s got %s", spec.Prefix, i, id, order[i])
			}
		}
	}
}

func TestGenerateRowStructure(t *testing.T) {
	grid := Generate("4A", 30, 8)

	// Full rows carry 8 seats and one spacer after the 4th.
	first := grid[0]
	if len(first) != 9 {
		t.Fatalf("expected 9 cells in a full row, got %d", len(first))
	}
	if first[4] != Spacer {
		t.Fatalf("expected spacer at index 4, got %s", first[4])
	}
	if string(first[0]) != "4A001" || string(first[8]) != "4A008" {
		t.Fatalf("unexpected first row bounds: %s..%s", first[0], first[8])
	}

	// Seat rows alternate with row breaks.
	for i, row := range grid {
		if i%2 == 1 {
			if len(row) != 1 || row[0] != RowBreak {
				t.Fatalf("row %d: expected row break, got %v", i, row)
			}
		} else if row[0] == RowBreak {
			t.Fatalf("row %d: unexpected row break", i)
		}
	}

	// 30 seats at 8 per row: 4 seat rows, 3 breaks, no trailing break.
	if len(grid) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(grid))
	}
	// The final row holds seats 25..30 plus the mid-row spacer.
	last := grid[len(grid)-1]
	if len(last) != 7 {
		t.Fatalf("expected 7 cells in last row, got %d", len(last))
	}
	if last[4] != Spacer {
		t.Fatalf("expected spacer at index 4 of last row, got %s", last[4])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("3C", 24, 6)
	b := Generate("3C", 24, 6)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic row count")
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			t.Fatalf("row %d differs in length", i)
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("cell (%d,%d) differs: %s vs %s", i, j, a[i][j], b[i][j])
			}
		}
	}
}

func TestGenerateFinalRowEndsAtLastSeat(t *testing.T) {
	grid := Generate("4C", 31, 8)
	last := grid[len(grid)-1]
	seats := 0
	for _, cell := range last {
		if cell.IsSeat() {
			seats++
		}
	}
	if seats != 7 {
		t.Fatalf("expected 7 seats in final row of 4C, got %d", seats)
	}
	if string(last[len(last)-1]) != "4C031" {
		t.Fatalf("expected final cell 4C031, got %s", last[len(last)-1])
	}
}
