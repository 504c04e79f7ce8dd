// Package notify posts the day's absentee summary to the staff
// webhook. The webhook is a fire-and-forget sink: a failed post is
// logged and never blocks attendance work.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"vic/attendance/internal/attendance"
	"vic/attendance/internal/roster"
)

type Notifier struct {
	webhookURL string
	client     *http.Client
}

func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

type reportPayload struct {
	Action    string `json:"action"`
	SheetName string `json:"sheetName"`
	Message   string `json:"message"`
}

// SendDayReport renders and posts the absentee summary for a date.
func (n *Notifier) SendDayReport(ctx context.Context, date string, snapshots []attendance.Snapshot, dir *roster.Directory) error {
	if !n.Enabled() {
		return nil
	}
	payload := reportPayload{
		Action:    "discord",
		SheetName: date,
		Message:   RenderDayReport(date, snapshots, dir),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// RenderDayReport builds the text summary: per-zone absentee lines in
// zone order, then totals.
func RenderDayReport(date string, snapshots []attendance.Snapshot, dir *roster.Directory) string {
	sorted := make([]attendance.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ZoneID < sorted[j].ZoneID })

	var b strings.Builder
	fmt.Fprintf(&b, "%s 면학실 출결 보고\n", date)

	totalAbsent := 0
	totalSeats := 0
	for _, snap := range sorted {
		var absentees []string
		for _, sr := range snap.Records {
			totalSeats++
			if sr.Record.Status != attendance.StatusAbsent {
				continue
			}
			totalAbsent++
			name := sr.Record.StudentID
			if student, ok := dir.ByNumber(sr.Record.StudentID); ok {
				name = fmt.Sprintf("%s(%s)", student.Name, student.Number)
			}
			absentees = append(absentees, name)
		}
		if len(absentees) == 0 {
			fmt.Fprintf(&b, "%s: 결석 없음\n", snap.ZoneID)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", snap.ZoneID, strings.Join(absentees, ", "))
	}
	fmt.Fprintf(&b, "총원 %d명 중 결석 %d명", totalSeats, totalAbsent)
	return b.String()
}
