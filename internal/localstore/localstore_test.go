package localstore

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"vic/attendance/internal/attendance"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func sampleSnapshot() attendance.Snapshot {
	return attendance.Snapshot{
		ZoneID: "4A",
		Date:   "2026-01-08",
		Records: []attendance.SeatRecord{
			{SeatID: "4A001", Record: attendance.Record{StudentID: "10101", Status: attendance.StatusPresent}},
			{SeatID: "4A002", Record: attendance.Record{StudentID: "10102", Status: attendance.StatusAbsent, IsModified: true, CheckedBy: "김종규"}},
		},
		RecordedBy: "김종규",
		Notes:      map[string]string{"4A002": "병원"},
	}
}

func TestTempSaveRoundTrip(t *testing.T) {
	store := newStore(t)
	snap := sampleSnapshot()

	if _, ok := store.LoadTemp("4A", "2026-01-08"); ok {
		t.Fatalf("expected no temp save yet")
	}
	if err := store.SaveTemp(snap); err != nil {
		t.Fatalf("save temp: %v", err)
	}

	loaded, ok := store.LoadTemp("4A", "2026-01-08")
	if !ok {
		t.Fatalf("expected temp save")
	}
	if len(loaded.Records) != 2 || loaded.Records[1].Record.CheckedBy != "김종규" {
		t.Fatalf("unexpected records: %+v", loaded.Records)
	}
	if loaded.Notes["4A002"] != "병원" {
		t.Fatalf("notes should round-trip: %+v", loaded.Notes)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatalf("save should stamp UpdatedAt")
	}

	if err := store.ClearTemp("4A", "2026-01-08"); err != nil {
		t.Fatalf("clear temp: %v", err)
	}
	if _, ok := store.LoadTemp("4A", "2026-01-08"); ok {
		t.Fatalf("temp save should be gone")
	}
	// Clearing again is a no-op, not an error.
	if err := store.ClearTemp("4A", "2026-01-08"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFinalSaveIsolatedPerKey(t *testing.T) {
	store := newStore(t)

	first := sampleSnapshot()
	if err := store.SaveFinal(first); err != nil {
		t.Fatalf("save final: %v", err)
	}
	other := sampleSnapshot()
	other.ZoneID = "3D"
	if err := store.SaveFinal(other); err != nil {
		t.Fatalf("save final: %v", err)
	}

	if _, ok := store.LoadFinal("4A", "2026-01-08"); !ok {
		t.Fatalf("expected 4A final save")
	}
	if _, ok := store.LoadFinal("3D", "2026-01-08"); !ok {
		t.Fatalf("expected 3D final save")
	}
	if _, ok := store.LoadFinal("4A", "2026-01-09"); ok {
		t.Fatalf("different date must not collide")
	}
	if _, ok := store.LoadTemp("4A", "2026-01-08"); ok {
		t.Fatalf("final saves must not leak into temp")
	}
}

func TestCorruptFileReadsAsMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	path := filepath.Join(dir, "final", "4A_2026-01-08.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := store.LoadFinal("4A", "2026-01-08"); ok {
		t.Fatalf("corrupt file should read as missing")
	}
}

func TestNotices(t *testing.T) {
	store := newStore(t)

	if _, ok := store.LoadNotice("2026-01-08"); ok {
		t.Fatalf("expected no notice yet")
	}
	if err := store.SaveNotice(Notice{Date: "2026-01-08", Content: "20시 전체 조회", Author: "이건우"}); err != nil {
		t.Fatalf("save notice: %v", err)
	}
	notice, ok := store.LoadNotice("2026-01-08")
	if !ok || notice.Content != "20시 전체 조회" {
		t.Fatalf("unexpected notice: %+v", notice)
	}

	// Overwrite replaces the day's notice.
	if err := store.SaveNotice(Notice{Date: "2026-01-08", Content: "조회 취소"}); err != nil {
		t.Fatalf("overwrite notice: %v", err)
	}
	notice, _ = store.LoadNotice("2026-01-08")
	if notice.Content != "조회 취소" {
		t.Fatalf("expected overwritten content, got %q", notice.Content)
	}
}

func TestBugReportLogAppends(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, content := range []string{"좌석이 안 눌려요", "저장 버튼 오류"} {
		if err := store.AppendBugReport(BugReport{Content: content, ReportedBy: "노예원"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "bug_reports.jsonl"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines []BugReport
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var report BugReport
		if err := json.Unmarshal(scanner.Bytes(), &report); err != nil {
			t.Fatalf("bad log line: %v", err)
		}
		lines = append(lines, report)
	}
	if len(lines) != 2 || lines[0].Content != "좌석이 안 눌려요" || lines[1].Content != "저장 버튼 오류" {
		t.Fatalf("unexpected log contents: %+v", lines)
	}
	if lines[0].CreatedAt.IsZero() {
		t.Fatalf("append should stamp CreatedAt")
	}
}
