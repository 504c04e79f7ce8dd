// Package localstore is the on-device cache: temp saves, a mirror of
// final saves, and small fallbacks that keep the day usable when the
// store is unreachable. Files are plain JSON under a data directory.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vic/attendance/internal/attendance"
)

type Store struct {
	root string
}

// New creates the data directory tree if needed.
func New(root string) (*Store, error) {
	for _, sub := range []string{"temp", "final", "notices"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &Store{root: root}, nil
}

func (s *Store) tempPath(zoneID, date string) string {
	return filepath.Join(s.root, "temp", fmt.Sprintf("%s_%s.json", zoneID, date))
}

func (s *Store) finalPath(zoneID, date string) string {
	return filepath.Join(s.root, "final", fmt.Sprintf("%s_%s.json", zoneID, date))
}

func (s *Store) LoadTemp(zoneID, date string) (*attendance.Snapshot, bool) {
	return readSnapshot(s.tempPath(zoneID, date))
}

func (s *Store) SaveTemp(snap attendance.Snapshot) error {
	snap.UpdatedAt = time.Now()
	return writeFileAtomic(s.tempPath(snap.ZoneID, snap.Date), snap)
}

func (s *Store) ClearTemp(zoneID, date string) error {
	err := os.Remove(s.tempPath(zoneID, date))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) LoadFinal(zoneID, date string) (*attendance.Snapshot, bool) {
	return readSnapshot(s.finalPath(zoneID, date))
}

func (s *Store) SaveFinal(snap attendance.Snapshot) error {
	snap.UpdatedAt = time.Now()
	return writeFileAtomic(s.finalPath(snap.ZoneID, snap.Date), snap)
}

// Notice is the daily notice shown on the check-in screens. The local
// copy serves when the store is down.
type Notice struct {
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Store) noticePath(date string) string {
	return filepath.Join(s.root, "notices", date+".json")
}

func (s *Store) SaveNotice(notice Notice) error {
	notice.UpdatedAt = time.Now()
	return writeFileAtomic(s.noticePath(notice.Date), notice)
}

func (s *Store) LoadNotice(date string) (*Notice, bool) {
	data, err := os.ReadFile(s.noticePath(date))
	if err != nil {
		return nil, false
	}
	var notice Notice
	if err := json.Unmarshal(data, &notice); err != nil {
		return nil, false
	}
	return &notice, true
}

func (s *Store) DeleteNotice(date string) error {
	err := os.Remove(s.noticePath(date))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// BugReport is one line in the append-only local report log, kept even
// after the report is forwarded upstream.
type BugReport struct {
	ID         string    `json:"id"`
	Code       string    `json:"code,omitempty"`
	Content    string    `json:"content"`
	ReportedBy string    `json:"reportedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *Store) AppendBugReport(report BugReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	line, err := json.Marshal(report)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.root, "bug_reports.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

func readSnapshot(path string) (*attendance.Snapshot, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var snap attendance.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A truncated write is as good as no save.
		return nil, false
	}
	return &snap, true
}

// writeFileAtomic writes via a temp file and rename so readers never
// see a partial save.
func writeFileAtomic(path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
