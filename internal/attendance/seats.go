package attendance

import (
	"vic/attendance/internal/layout"
	"vic/attendance/internal/roster"
)

// RosterSeats adapts the static layout and student directory to the
// SeatSource the reconciliation consumes.
type RosterSeats struct {
	dir *roster.Directory
}

func NewRosterSeats(dir *roster.Directory) *RosterSeats {
	return &RosterSeats{dir: dir}
}

func (r *RosterSeats) SeatOrder(zoneID string) []string {
	return layout.SeatIDs(zoneID)
}

func (r *RosterSeats) SeatStudents(zoneID string) map[string]string {
	out := make(map[string]string)
	for _, seatID := range layout.SeatIDs(zoneID) {
		if student, ok := r.dir.BySeat(seatID); ok {
			out[seatID] = student.Number
		}
	}
	return out
}
