package attendance

import (
	"testing"

	"vic/attendance/internal/layout"
	"vic/attendance/internal/roster"
)

func zoneSheet(t *testing.T, zoneID, date string) *Sheet {
	t.Helper()
	dir := roster.NewDirectory(roster.Seed())
	order := layout.SeatIDs(zoneID)
	seats := make(map[string]string)
	for _, seatID := range order {
		if student, ok := dir.BySeat(seatID); ok {
			seats[seatID] = student.Number
		}
	}
	return NewSheet(zoneID, date, order, seats)
}

func TestTapCycle(t *testing.T) {
	sheet := zoneSheet(t, "4A", "2026-01-08")

	status, err := sheet.Tap("4A001", "홍선영")
	if err != nil || status != StatusPresent {
		t.Fatalf("first tap: expected present, got %s err=%v", status, err)
	}
	status, _ = sheet.Tap("4A001", "홍선영")
	if status != StatusAbsent {
		t.Fatalf("second tap: expected absent, got %s", status)
	}
	status, _ = sheet.Tap("4A001", "홍선영")
	if status != StatusUnchecked {
		t.Fatalf("third tap: expected unchecked, got %s", status)
	}

	rec, ok := sheet.Record("4A001")
	if !ok {
		t.Fatalf("expected a record for 4A001")
	}
	if !rec.IsModified || rec.CheckedBy != "홍선영" {
		t.Fatalf("tap should stamp modification and staff: %+v", rec)
	}
	if !sheet.Dirty() {
		t.Fatalf("taps should dirty the sheet")
	}
}

func TestTapRejections(t *testing.T) {
	sheet := zoneSheet(t, "4A", "2026-01-08")

	if _, err := sheet.Tap("4A999", "홍선영"); err != ErrUnassignedSeat {
		t.Fatalf("expected unassigned seat error, got %v", err)
	}

	sheet.ReadOnly = true
	if _, err := sheet.Tap("4A001", "홍선영"); err != ErrReadOnly {
		t.Fatalf("expected read-only error, got %v", err)
	}
	if err := sheet.MarkAll(StatusPresent, "홍선영"); err != ErrReadOnly {
		t.Fatalf("expected read-only error on mark all, got %v", err)
	}
}

func TestMarkAllOverwrites(t *testing.T) {
	sheet := zoneSheet(t, "4A", "2026-01-08")

	// Mix up a few seats first.
	sheet.Tap("4A001", "장보경")
	sheet.Tap("4A002", "장보경")
	sheet.Tap("4A002", "장보경")

	if err := sheet.MarkAll(StatusPresent, "장보경"); err != nil {
		t.Fatalf("mark all present: %v", err)
	}
	if err := sheet.MarkAll(StatusAbsent, "장보경"); err != nil {
		t.Fatalf("mark all absent: %v", err)
	}

	sum := sheet.Summary()
	if sum.Absent != 30 || sum.Present != 0 || sum.Unchecked != 0 {
		t.Fatalf("expected 30 absent after bulk overwrite, got %+v", sum)
	}
	if err := sheet.MarkAll(StatusUnchecked, "장보경"); err != ErrInvalidStatus {
		t.Fatalf("mark all unchecked should be rejected, got %v", err)
	}
}

func TestSummaryTotalCoverage(t *testing.T) {
	sheet := zoneSheet(t, "4C", "2026-01-08")

	sum := sheet.Summary()
	if sum.Total != 31 || sum.Unchecked != 31 {
		t.Fatalf("fresh 4C sheet: expected 31 unchecked of 31, got %+v", sum)
	}

	sheet.Tap("4C001", "김솔") // present
	sheet.Tap("4C002", "김솔")
	sheet.Tap("4C002", "김솔") // absent

	sum = sheet.Summary()
	if sum.Present != 1 || sum.Absent != 1 || sum.Unchecked != 29 || sum.Total != 31 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Present+sum.Absent+sum.Unchecked != sum.Total {
		t.Fatalf("statuses must cover every seat: %+v", sum)
	}
}

func TestSeedPreAbsences(t *testing.T) {
	sheet := zoneSheet(t, "4A", "2025-12-22")

	seeded := sheet.SeedPreAbsences(func(studentID string) bool {
		return studentID == "10103"
	})
	if seeded != 1 {
		t.Fatalf("expected 1 seeded seat, got %d", seeded)
	}

	rec, _ := sheet.Record("4A003")
	if rec.Status != StatusAbsent {
		t.Fatalf("expected 4A003 absent, got %s", rec.Status)
	}
	sum := sheet.Summary()
	if sum.Absent != 1 || sum.Unchecked != 29 {
		t.Fatalf("expected 1 absent / 29 unchecked, got %+v", sum)
	}
	if sheet.Dirty() {
		t.Fatalf("seeding is not a user edit")
	}
}

func TestNotes(t *testing.T) {
	sheet := zoneSheet(t, "3C", "2026-01-08")

	if err := sheet.SetNote("3C001", "병결 예정"); err != nil {
		t.Fatalf("set note: %v", err)
	}
	if got := sheet.Note("3C001"); got != "병결 예정" {
		t.Fatalf("unexpected note: %s", got)
	}
	if err := sheet.SetNote("3C001", ""); err != nil {
		t.Fatalf("clear note: %v", err)
	}
	if got := sheet.Note("3C001"); got != "" {
		t.Fatalf("note should be cleared, got %s", got)
	}
	if err := sheet.SetNote("9Z001", "x"); err != ErrUnknownSeat {
		t.Fatalf("expected unknown seat error, got %v", err)
	}
}

func TestAbsentStudentsOrder(t *testing.T) {
	sheet := zoneSheet(t, "4A", "2026-01-08")
	sheet.Tap("4A010", "민수정")
	sheet.Tap("4A010", "민수정")
	sheet.Tap("4A002", "민수정")
	sheet.Tap("4A002", "민수정")

	absent := sheet.AbsentStudents()
	if len(absent) != 2 {
		t.Fatalf("expected 2 absent, got %d", len(absent))
	}
	if absent[0].SeatID != "4A002" || absent[1].SeatID != "4A010" {
		t.Fatalf("absent list should keep layout order: %+v", absent)
	}
}
