// Package attendance implements the per-seat status state machine and the
// reconciliation that produces a zone's sheet for a date.
package attendance

import (
	"errors"
	"time"
)

// Status is explicit for every assigned seat. A seat is never "missing
// from the map": unchecked is a real value, so summaries count instead of
// subtracting.
type Status string

const (
	StatusUnchecked Status = "unchecked"
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
)

func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusUnchecked, StatusPresent, StatusAbsent:
		return Status(value), nil
	default:
		return "", ErrInvalidStatus
	}
}

type Record struct {
	StudentID  string `json:"studentId"`
	Status     Status `json:"status"`
	IsModified bool   `json:"isModified"`
	CheckedBy  string `json:"checkedBy,omitempty"`
}

// SeatRecord pairs a seat with its record; slices of these keep layout
// order, which the snapshot persists.
type SeatRecord struct {
	SeatID string `json:"seatId"`
	Record Record `json:"record"`
}

// Snapshot is the persisted record set for one zone on one date.
type Snapshot struct {
	ZoneID     string            `json:"zoneId"`
	Date       string            `json:"date"`
	Records    []SeatRecord      `json:"records"`
	RecordedBy string            `json:"recordedBy,omitempty"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt,omitempty"`
	UpdatedAt  time.Time         `json:"updatedAt,omitempty"`
}

type Summary struct {
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Unchecked int `json:"unchecked"`
	Total     int `json:"total"`
}

// Source tells where a loaded sheet came from.
type Source string

const (
	SourceStore  Source = "store"  // persisted snapshot, authoritative
	SourceTemp   Source = "temp"   // unsaved local temp save
	SourceLocal  Source = "local"  // local final save (store was unreachable)
	SourceSeeded Source = "seeded" // fresh sheet seeded from pre-absences
)

var (
	ErrInvalidStatus  = errors.New("invalid status")
	ErrUnknownSeat    = errors.New("unknown seat")
	ErrUnassignedSeat = errors.New("seat has no student")
	ErrReadOnly       = errors.New("sheet is read-only")
)

// Sheet is one zone's in-progress attendance for one date, with total
// status coverage over its assigned seats.
type Sheet struct {
	ZoneID     string
	Date       string
	ReadOnly   bool
	Source     Source
	RecordedBy string

	order   []string
	records map[string]Record
	notes   map[string]string
	dirty   bool
}

// NewSheet builds an all-unchecked sheet over the zone's assigned seats.
// seats maps seat id to student id and order lists seat ids in layout
// order; seats absent from the map are unassigned and excluded.
func NewSheet(zoneID, date string, order []string, seats map[string]string) *Sheet {
	s := &Sheet{
		ZoneID:  zoneID,
		Date:    date,
		Source:  SourceSeeded,
		records: make(map[string]Record, len(order)),
		notes:   make(map[string]string),
	}
	for _, seatID := range order {
		studentID, ok := seats[seatID]
		if !ok {
			continue
		}
		s.order = append(s.order, seatID)
		s.records[seatID] = Record{StudentID: studentID, Status: StatusUnchecked}
	}
	return s
}

// SeedPreAbsences pre-sets seats whose student is pre-absent on the
// sheet's date. Only valid on a fresh sheet; loaded snapshots already
// reflect pre-absences from save time and are never re-seeded.
func (s *Sheet) SeedPreAbsences(isPreAbsent func(studentID string) bool) int {
	seeded := 0
	for _, seatID := range s.order {
		rec := s.records[seatID]
		if rec.Status != StatusUnchecked {
			continue
		}
		if isPreAbsent(rec.StudentID) {
			rec.Status = StatusAbsent
			s.records[seatID] = rec
			seeded++
		}
	}
	return seeded
}

// Tap advances a seat through unchecked → present → absent → unchecked.
func (s *Sheet) Tap(seatID, staff string) (Status, error) {
	if s.ReadOnly {
		return "", ErrReadOnly
	}
	rec, ok := s.records[seatID]
	if !ok {
		return "", ErrUnassignedSeat
	}
	switch rec.Status {
	case StatusUnchecked:
		rec.Status = StatusPresent
	case StatusPresent:
		rec.Status = StatusAbsent
	default:
		rec.Status = StatusUnchecked
	}
	rec.IsModified = true
	rec.CheckedBy = staff
	s.records[seatID] = rec
	s.dirty = true
	return rec.Status, nil
}

// MarkAll overwrites every assigned seat's status, discarding per-seat
// distinctions.
func (s *Sheet) MarkAll(status Status, staff string) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	if status != StatusPresent && status != StatusAbsent {
		return ErrInvalidStatus
	}
	for _, seatID := range s.order {
		rec := s.records[seatID]
		rec.Status = status
		rec.IsModified = true
		rec.CheckedBy = staff
		s.records[seatID] = rec
	}
	s.dirty = true
	return nil
}

func (s *Sheet) Record(seatID string) (Record, bool) {
	rec, ok := s.records[seatID]
	return rec, ok
}

// Records lists seat records in layout order.
func (s *Sheet) Records() []SeatRecord {
	out := make([]SeatRecord, 0, len(s.order))
	for _, seatID := range s.order {
		out = append(out, SeatRecord{SeatID: seatID, Record: s.records[seatID]})
	}
	return out
}

func (s *Sheet) SetNote(seatID, note string) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	if _, ok := s.records[seatID]; !ok {
		return ErrUnknownSeat
	}
	if note == "" {
		delete(s.notes, seatID)
	} else {
		s.notes[seatID] = note
	}
	s.dirty = true
	return nil
}

func (s *Sheet) Note(seatID string) string {
	return s.notes[seatID]
}

func (s *Sheet) Notes() map[string]string {
	out := make(map[string]string, len(s.notes))
	for k, v := range s.notes {
		out[k] = v
	}
	return out
}

func (s *Sheet) Summary() Summary {
	sum := Summary{}
	for _, seatID := range s.order {
		switch s.records[seatID].Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		default:
			sum.Unchecked++
		}
		sum.Total++
	}
	return sum
}

// UncheckedCount is the save precondition: saving needs zero.
func (s *Sheet) UncheckedCount() int {
	return s.Summary().Unchecked
}

func (s *Sheet) Dirty() bool {
	return s.dirty
}

func (s *Sheet) MarkClean() {
	s.dirty = false
}

// AbsentStudents lists (studentId, seatId) for seats marked absent, in
// layout order. This feeds the SMS dispatcher.
func (s *Sheet) AbsentStudents() []SeatRecord {
	var out []SeatRecord
	for _, seatID := range s.order {
		if rec := s.records[seatID]; rec.Status == StatusAbsent {
			out = append(out, SeatRecord{SeatID: seatID, Record: rec})
		}
	}
	return out
}

// Apply overwrites the sheet from a stored record set. Records for seats
// the sheet does not know are dropped; known seats missing from the data
// stay unchecked.
func (s *Sheet) Apply(records []SeatRecord, notes map[string]string, recordedBy string, source Source, dirty bool) {
	for _, sr := range records {
		current, ok := s.records[sr.SeatID]
		if !ok {
			continue
		}
		rec := sr.Record
		if rec.StudentID == "" {
			rec.StudentID = current.StudentID
		}
		if rec.Status == "" {
			rec.Status = StatusUnchecked
		}
		s.records[sr.SeatID] = rec
	}
	s.notes = make(map[string]string, len(notes))
	for k, v := range notes {
		s.notes[k] = v
	}
	s.RecordedBy = recordedBy
	s.Source = source
	s.dirty = dirty
}

// ToSnapshot captures the sheet as the persistence unit.
func (s *Sheet) ToSnapshot(recordedBy string) Snapshot {
	return Snapshot{
		ZoneID:     s.ZoneID,
		Date:       s.Date,
		Records:    s.Records(),
		RecordedBy: recordedBy,
		Notes:      s.Notes(),
	}
}
