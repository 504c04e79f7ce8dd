// Package db is the Postgres persistence layer. Attendance snapshots
// are one row per (zone, date) with the record set as JSONB, upserted
// whole; the row is the unit of overwrite.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vic/attendance/internal/attendance"
	"vic/attendance/internal/localstore"
	"vic/attendance/internal/roster"
)

type Store struct {
	Pool *pgxpool.Pool
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// Attendance snapshots

func (s *Store) GetSnapshot(ctx context.Context, zoneID, date string) (*attendance.Snapshot, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT zone_id, date, records, recorded_by, notes, created_at, updated_at
		FROM zone_attendance
		WHERE zone_id = $1 AND date = $2`, zoneID, date)
	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) UpsertSnapshot(ctx context.Context, snap attendance.Snapshot) error {
	records, err := json.Marshal(snap.Records)
	if err != nil {
		return err
	}
	notes, err := json.Marshal(snap.Notes)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO zone_attendance (zone_id, date, records, recorded_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (zone_id, date) DO UPDATE SET
			records = EXCLUDED.records,
			recorded_by = EXCLUDED.recorded_by,
			notes = EXCLUDED.notes,
			updated_at = now()`,
		snap.ZoneID, snap.Date, records, snap.RecordedBy, notes)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *Store) ListSnapshotsByDate(ctx context.Context, date string) ([]attendance.Snapshot, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT zone_id, date, records, recorded_by, notes, created_at, updated_at
		FROM zone_attendance
		WHERE date = $1
		ORDER BY zone_id`, date)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []attendance.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

func scanSnapshot(row pgx.Row) (*attendance.Snapshot, error) {
	var (
		snap    attendance.Snapshot
		records []byte
		notes   []byte
	)
	if err := row.Scan(&snap.ZoneID, &snap.Date, &records, &snap.RecordedBy, &notes, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(records, &snap.Records); err != nil {
		return nil, err
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &snap.Notes); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

// Roster

// ListStudents loads the term's seat assignments. An empty table is not
// an error; callers fall back to the seeded roster.
func (s *Store) ListStudents(ctx context.Context) ([]roster.Student, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT number, name, grade, class, number_in_class, zone_id, seat_id
		FROM students
		ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var out []roster.Student
	for rows.Next() {
		var st roster.Student
		if err := rows.Scan(&st.Number, &st.Name, &st.Grade, &st.Class, &st.NumberInClass, &st.ZoneID, &st.SeatID); err != nil {
			return nil, fmt.Errorf("list students: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ReplaceStudents swaps the whole roster in one transaction, for the
// start-of-term import.
func (s *Store) ReplaceStudents(ctx context.Context, students []roster.Student) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM students`); err != nil {
			return fmt.Errorf("clear students: %w", err)
		}
		for _, st := range students {
			_, err := tx.Exec(ctx, `
				INSERT INTO students (number, name, grade, class, number_in_class, zone_id, seat_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				st.Number, st.Name, st.Grade, st.Class, st.NumberInClass, st.ZoneID, st.SeatID)
			if err != nil {
				return fmt.Errorf("insert student %s: %w", st.Number, err)
			}
		}
		return nil
	})
}

// Daily notices

func (s *Store) UpsertNotice(ctx context.Context, notice localstore.Notice) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO daily_notices (date, content, author, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (date) DO UPDATE SET
			content = EXCLUDED.content,
			author = EXCLUDED.author,
			updated_at = now()`,
		notice.Date, notice.Content, notice.Author)
	if err != nil {
		return fmt.Errorf("upsert notice: %w", err)
	}
	return nil
}

func (s *Store) DeleteNotice(ctx context.Context, date string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM daily_notices WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}

func (s *Store) GetNotice(ctx context.Context, date string) (*localstore.Notice, error) {
	var notice localstore.Notice
	err := s.Pool.QueryRow(ctx, `
		SELECT date, content, author, updated_at
		FROM daily_notices
		WHERE date = $1`, date).
		Scan(&notice.Date, &notice.Content, &notice.Author, &notice.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notice: %w", err)
	}
	return &notice, nil
}

// Bug reports

func (s *Store) InsertBugReport(ctx context.Context, report localstore.BugReport) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO bug_reports (id, code, content, reported_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		report.ID, report.Code, report.Content, report.ReportedBy, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bug report: %w", err)
	}
	return nil
}

func (s *Store) ListBugReports(ctx context.Context, limit int) ([]localstore.BugReport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, code, content, reported_by, created_at
		FROM bug_reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list bug reports: %w", err)
	}
	defer rows.Close()

	var out []localstore.BugReport
	for rows.Next() {
		var report localstore.BugReport
		if err := rows.Scan(&report.ID, &report.Code, &report.Content, &report.ReportedBy, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("list bug reports: %w", err)
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// SMS dispatch log

type SMSLogEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	StudentID string    `json:"studentId"`
	SeatID    string    `json:"seatId,omitempty"`
	Mode      string    `json:"mode"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail,omitempty"`
	SentBy    string    `json:"sentBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) InsertSMSLog(ctx context.Context, entry SMSLogEntry) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO sms_log (id, date, student_id, seat_id, mode, success, detail, sent_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Date, entry.StudentID, entry.SeatID, entry.Mode, entry.Success, entry.Detail, entry.SentBy, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sms log: %w", err)
	}
	return nil
}

func (s *Store) ListSMSLogByDate(ctx context.Context, date string) ([]SMSLogEntry, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, date, student_id, seat_id, mode, success, detail, sent_by, created_at
		FROM sms_log
		WHERE date = $1
		ORDER BY created_at`, date)
	if err != nil {
		return nil, fmt.Errorf("list sms log: %w", err)
	}
	defer rows.Close()

	var out []SMSLogEntry
	for rows.Next() {
		var entry SMSLogEntry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.StudentID, &entry.SeatID, &entry.Mode, &entry.Success, &entry.Detail, &entry.SentBy, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("list sms log: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
