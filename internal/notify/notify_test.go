package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vic/attendance/internal/attendance"
	"vic/attendance/internal/roster"
)

func daySnapshots() []attendance.Snapshot {
	return []attendance.Snapshot{
		{
			ZoneID: "3D",
			Date:   "2026-01-08",
			Records: []attendance.SeatRecord{
				{SeatID: "3D001", Record: attendance.Record{StudentID: "20401", Status: attendance.StatusPresent}},
			},
		},
		{
			ZoneID: "4A",
			Date:   "2026-01-08",
			Records: []attendance.SeatRecord{
				{SeatID: "4A001", Record: attendance.Record{StudentID: "10101", Status: attendance.StatusPresent}},
				{SeatID: "4A003", Record: attendance.Record{StudentID: "10103", Status: attendance.StatusAbsent}},
			},
		},
	}
}

func TestRenderDayReport(t *testing.T) {
	dir := roster.NewDirectory(roster.Seed())
	report := RenderDayReport("2026-01-08", daySnapshots(), dir)

	lines := strings.Split(report, "\n")
	if lines[0] != "2026-01-08 면학실 출결 보고" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	// Zones sort regardless of input order.
	if !strings.HasPrefix(lines[1], "3D:") || !strings.HasPrefix(lines[2], "4A:") {
		t.Fatalf("zones should be sorted: %v", lines)
	}
	if lines[1] != "3D: 결석 없음" {
		t.Fatalf("zone without absentees: %s", lines[1])
	}
	if !strings.Contains(lines[2], "(10103)") {
		t.Fatalf("absentee should carry name and number: %s", lines[2])
	}
	if lines[3] != "총원 3명 중 결석 1명" {
		t.Fatalf("unexpected totals: %s", lines[3])
	}
}

func TestSendDayReportPostsPayload(t *testing.T) {
	var got reportPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := roster.NewDirectory(roster.Seed())
	if err := New(srv.URL).SendDayReport(context.Background(), "2026-01-08", daySnapshots(), dir); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.Action != "discord" || got.SheetName != "2026-01-08" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if !strings.Contains(got.Message, "결석") {
		t.Fatalf("message should carry the summary: %s", got.Message)
	}
}

func TestSendDayReportErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	dir := roster.NewDirectory(roster.Seed())
	if err := New(srv.URL).SendDayReport(context.Background(), "2026-01-08", nil, dir); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}

	// Unconfigured notifier is a no-op.
	if err := New("").SendDayReport(context.Background(), "2026-01-08", nil, dir); err != nil {
		t.Fatalf("disabled notifier should be silent: %v", err)
	}
}
