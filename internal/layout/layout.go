// Package layout builds the static seat grids for each study-hall zone.
package layout

import "fmt"

// Cell is one slot in a seat grid row: a seat id, or one of the marker
// values below.
type Cell string

const (
	Spacer   Cell = "sp"
	Empty    Cell = "empty"
	RowBreak Cell = "br"
)

func (c Cell) IsSeat() bool {
	return c != Spacer && c != Empty && c != RowBreak
}

type Row []Cell

type Layout []Row

// ZoneSpec describes a zone's grid. Seat ids are positional, so the same
// spec always generates the same layout.
type ZoneSpec struct {
	Prefix      string
	Grade       int
	SeatCount   int
	SeatsPerRow int
}

// Seat counts match the enrolled students per zone.
// Grade 1 (4th floor): 4A(30) 4B(30) 4C(31) 4D(30) = 121
// Grade 2 (3rd floor): 3A(37) 3B(37) 3C(24) 3D(48) = 146
var Zones = []ZoneSpec{
	{Prefix: "4A", Grade: 1, SeatCount: 30, SeatsPerRow: 8},
	{Prefix: "4B", Grade: 1, SeatCount: 30, SeatsPerRow: 8},
	{Prefix: "4C", Grade: 1, SeatCount: 31, SeatsPerRow: 8},
	{Prefix: "4D", Grade: 1, SeatCount: 30, SeatsPerRow: 8},
	{Prefix: "3A", Grade: 2, SeatCount: 37, SeatsPerRow: 8},
	{Prefix: "3B", Grade: 2, SeatCount: 37, SeatsPerRow: 8},
	{Prefix: "3C", Grade: 2, SeatCount: 24, SeatsPerRow: 6},
	{Prefix: "3D", Grade: 2, SeatCount: 48, SeatsPerRow: 8},
}

// Generate produces the grid for a zone: rows of seat ids with a spacer
// after the fourth seat of a continuing row, and a row-break row between
// seat rows.
func Generate(prefix string, count, seatsPerRow int) Layout {
	if count <= 0 || seatsPerRow <= 0 {
		return Layout{}
	}
	var out Layout
	seatNum := 1
	for seatNum <= count {
		var row Row
		for i := 0; i < seatsPerRow && seatNum <= count; i++ {
			row = append(row, Cell(fmt.Sprintf("%s%03d", prefix, seatNum)))
			seatNum++
			if i == 3 && seatNum <= count && i < seatsPerRow-1 {
				row = append(row, Spacer)
			}
		}
		out = append(out, row)
		if seatNum <= count {
			out = append(out, Row{RowBreak})
		}
	}
	return out
}

// ForZone returns the layout for a known zone prefix, or nil.
func ForZone(prefix string) Layout {
	spec, ok := Zone(prefix)
	if !ok {
		return nil
	}
	return Generate(spec.Prefix, spec.SeatCount, spec.SeatsPerRow)
}

func Zone(prefix string) (ZoneSpec, bool) {
	for _, spec := range Zones {
		if spec.Prefix == prefix {
			return spec, true
		}
	}
	return ZoneSpec{}, false
}

// SeatIDs flattens a zone's seats in generation order.
func SeatIDs(prefix string) []string {
	spec, ok := Zone(prefix)
	if !ok {
		return nil
	}
	ids := make([]string, 0, spec.SeatCount)
	for n := 1; n <= spec.SeatCount; n++ {
		ids = append(ids, fmt.Sprintf("%s%03d", prefix, n))
	}
	return ids
}
