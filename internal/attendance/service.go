package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// SnapshotStore is the external zone attendance store. Get returns nil
// without error when no snapshot exists for the key.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, zoneID, date string) (*Snapshot, error)
	UpsertSnapshot(ctx context.Context, snap Snapshot) error
	ListSnapshotsByDate(ctx context.Context, date string) ([]Snapshot, error)
}

// FallbackStore is the on-device cache that survives connectivity loss:
// temp saves, and a mirror of the last final save per (zone, date).
type FallbackStore interface {
	LoadTemp(zoneID, date string) (*Snapshot, bool)
	SaveTemp(snap Snapshot) error
	ClearTemp(zoneID, date string) error
	LoadFinal(zoneID, date string) (*Snapshot, bool)
	SaveFinal(snap Snapshot) error
}

// PreAbsenceChecker answers whether a student is pre-absent on a date.
type PreAbsenceChecker interface {
	IsPreAbsentOnDate(ctx context.Context, studentID, date string) bool
}

// ChangePublisher notifies subscribers that a date's snapshot set changed.
type ChangePublisher interface {
	SnapshotChanged(ctx context.Context, date string)
}

// SeatSource provides the assigned-seat layout for a zone.
type SeatSource interface {
	SeatOrder(zoneID string) []string
	SeatStudents(zoneID string) map[string]string
}

// ErrUncheckedSeats rejects a save while any assigned seat is unchecked.
type ErrUncheckedSeats struct {
	Count int
}

func (e *ErrUncheckedSeats) Error() string {
	return fmt.Sprintf("%d seats still unchecked", e.Count)
}

// Conflict reports an existing snapshot that a save would overwrite.
type Conflict struct {
	RecordedBy string    `json:"recordedBy,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

var ErrUnknownZone = errors.New("unknown zone")

// Service wires the reconciliation precedence and the save contract.
type Service struct {
	store     SnapshotStore
	local     FallbackStore
	absences  PreAbsenceChecker
	publisher ChangePublisher
	seats     SeatSource
}

func NewService(store SnapshotStore, local FallbackStore, absences PreAbsenceChecker, publisher ChangePublisher, seats SeatSource) *Service {
	return &Service{
		store:     store,
		local:     local,
		absences:  absences,
		publisher: publisher,
		seats:     seats,
	}
}

// LoadSheet reconciles a zone's sheet for a date. Precedence: persisted
// snapshot, then local temp save, then local final save, then a fresh
// sheet seeded from the pre-absence registry. Only the seeded path
// consults the registry: a loaded snapshot already reflects whatever
// pre-absences held at save time.
func (s *Service) LoadSheet(ctx context.Context, zoneID, date string, readOnly bool) (*Sheet, error) {
	order := s.seats.SeatOrder(zoneID)
	if len(order) == 0 {
		return nil, ErrUnknownZone
	}
	sheet := NewSheet(zoneID, date, order, s.seats.SeatStudents(zoneID))
	sheet.ReadOnly = readOnly

	snap, err := s.store.GetSnapshot(ctx, zoneID, date)
	if err != nil {
		// Store unreachable: degrade to the local cache.
		log.Printf("snapshot load failed for %s/%s, using local fallback: %v", zoneID, date, err)
	}
	if snap != nil {
		sheet.Apply(snap.Records, snap.Notes, snap.RecordedBy, SourceStore, false)
		return sheet, nil
	}

	if temp, ok := s.local.LoadTemp(zoneID, date); ok {
		sheet.Apply(temp.Records, temp.Notes, temp.RecordedBy, SourceTemp, true)
		return sheet, nil
	}

	if final, ok := s.local.LoadFinal(zoneID, date); ok {
		sheet.Apply(final.Records, final.Notes, final.RecordedBy, SourceLocal, false)
		return sheet, nil
	}

	sheet.SeedPreAbsences(func(studentID string) bool {
		return s.absences.IsPreAbsentOnDate(ctx, studentID, date)
	})
	return sheet, nil
}

// Save persists a sheet as the zone's snapshot for the date. The
// zero-unchecked invariant applies; an existing snapshot requires
// confirmOverwrite and is otherwise reported as a Conflict. On success
// the snapshot is mirrored into the local final cache (both stores are
// always written together so the note data stays consistent) and any
// pending temp save is cleared.
func (s *Service) Save(ctx context.Context, sheet *Sheet, recordedBy string, confirmOverwrite bool) (*Conflict, error) {
	if sheet.ReadOnly {
		return nil, ErrReadOnly
	}
	if unchecked := sheet.UncheckedCount(); unchecked > 0 {
		return nil, &ErrUncheckedSeats{Count: unchecked}
	}

	// Presence check is independent of what this session loaded.
	existing, err := s.store.GetSnapshot(ctx, sheet.ZoneID, sheet.Date)
	if err != nil {
		return nil, fmt.Errorf("overwrite check: %w", err)
	}
	if existing != nil && !confirmOverwrite {
		return &Conflict{RecordedBy: existing.RecordedBy, UpdatedAt: existing.UpdatedAt}, nil
	}

	snap := sheet.ToSnapshot(recordedBy)
	if err := s.store.UpsertSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	if err := s.local.SaveFinal(snap); err != nil {
		log.Printf("final save mirror failed for %s/%s: %v", sheet.ZoneID, sheet.Date, err)
	}
	if err := s.local.ClearTemp(sheet.ZoneID, sheet.Date); err != nil {
		log.Printf("temp save clear failed for %s/%s: %v", sheet.ZoneID, sheet.Date, err)
	}
	sheet.RecordedBy = recordedBy
	sheet.Source = SourceStore
	sheet.MarkClean()
	if s.publisher != nil {
		s.publisher.SnapshotChanged(ctx, sheet.Date)
	}
	return nil, nil
}

// SaveTemp writes the sheet to the local cache only, bypassing the
// zero-unchecked invariant.
func (s *Service) SaveTemp(sheet *Sheet, recordedBy string) error {
	if sheet.ReadOnly {
		return ErrReadOnly
	}
	return s.local.SaveTemp(sheet.ToSnapshot(recordedBy))
}

// Day lists every zone's snapshot for a date (the admin dashboard view).
func (s *Service) Day(ctx context.Context, date string) ([]Snapshot, error) {
	return s.store.ListSnapshotsByDate(ctx, date)
}
