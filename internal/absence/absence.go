// Package absence is the pre-absence registry: date-ranged excused
// absences (사전결석) and overnight leaves (외박) sourced from an external
// spreadsheet feed, with an in-memory cache and a static fallback table.
package absence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sync"
	"time"
)

const (
	TypePreAbsence = "사전결석"
	TypeOvernight  = "외박"
)

type Entry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// Info is the resolved pre-absence for one student on one date.
type Info struct {
	Reason    string `json:"reason"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

var ErrNoFeed = errors.New("no absence feed configured")

// Service caches feed entries for a freshness window and degrades to the
// static fallback table when the feed is unreachable. Construct with New;
// there is no package-level state.
type Service struct {
	feedURL  string
	feedFile string
	ttl      time.Duration
	client   *http.Client
	fallback []Entry

	mu        sync.Mutex
	entries   []Entry
	fetchedAt time.Time
}

func New(feedURL, feedFile string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		feedURL:  feedURL,
		feedFile: feedFile,
		ttl:      ttl,
		client:   &http.Client{Timeout: 15 * time.Second},
		fallback: fallbackEntries,
	}
}

// Invalidate drops the cache so the next query refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.fetchedAt = time.Time{}
}

// Refresh forces a reload regardless of cache freshness.
func (s *Service) Refresh(ctx context.Context) error {
	s.Invalidate()
	_, err := s.load(ctx)
	return err
}

// Entries returns the current entry set, loading it if needed. The error
// is informational: on feed failure the stale cache or the fallback table
// is still returned.
func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	return s.load(ctx)
}

func (s *Service) IsPreAbsentOnDate(ctx context.Context, studentID, date string) bool {
	entries, _ := s.load(ctx)
	for _, e := range entries {
		if e.StudentID == studentID && date >= e.StartDate && date <= e.EndDate {
			return true
		}
	}
	return false
}

// Info returns the pre-absence matching a student and date, or nil. When
// several ranges match, the last entry in feed order wins.
func (s *Service) Info(ctx context.Context, studentID, date string) *Info {
	entries, _ := s.load(ctx)
	var match *Entry
	for i := range entries {
		e := &entries[i]
		if e.StudentID == studentID && date >= e.StartDate && date <= e.EndDate {
			match = e
		}
	}
	if match == nil {
		return nil
	}
	return &Info{
		Reason:    displayReason(*match),
		Type:      entryType(*match),
		StartDate: match.StartDate,
		EndDate:   match.EndDate,
	}
}

func (s *Service) IsOvernightLeaveOnDate(ctx context.Context, studentID, date string) bool {
	entries, _ := s.load(ctx)
	for _, e := range entries {
		if e.StudentID == studentID && entryType(e) == TypeOvernight &&
			date >= e.StartDate && date <= e.EndDate {
			return true
		}
	}
	return false
}

// AllAbsentOn lists every entry whose range contains the date.
func (s *Service) AllAbsentOn(ctx context.Context, date string) []Entry {
	entries, _ := s.load(ctx)
	var out []Entry
	for _, e := range entries {
		if date >= e.StartDate && date <= e.EndDate {
			out = append(out, e)
		}
	}
	return out
}

func (s *Service) load(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.entries, nil
	}

	entries, err := s.fetch(ctx)
	if err == nil {
		s.entries = entries
		s.fetchedAt = time.Now()
		return s.entries, nil
	}
	log.Printf("absence feed fetch failed, degrading: %v", err)

	// Stale cache beats the static table. The zero fetchedAt leaves the
	// cache marked stale so the next query retries the feed.
	if s.entries != nil {
		return s.entries, err
	}
	s.entries = s.fallback
	return s.entries, err
}

func (s *Service) fetch(ctx context.Context) ([]Entry, error) {
	if s.feedURL != "" {
		entries, err := s.fetchFeed(ctx)
		if err == nil {
			return entries, nil
		}
		if s.feedFile == "" {
			return nil, err
		}
		log.Printf("absence feed unreachable, trying spreadsheet file: %v", err)
	}
	if s.feedFile != "" {
		return loadSpreadsheet(s.feedFile)
	}
	return nil, ErrNoFeed
}

func (s *Service) fetchFeed(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("absence feed status %d", resp.StatusCode)
	}
	var raw []Entry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeEntries(raw), nil
}

func normalizeEntries(raw []Entry) []Entry {
	out := make([]Entry, 0, len(raw))
	for _, e := range raw {
		e.StartDate = NormalizeDate(e.StartDate)
		e.EndDate = NormalizeDate(e.EndDate)
		if e.StudentID == "" || e.StartDate == "" || e.EndDate == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func entryType(e Entry) string {
	if e.Type == TypeOvernight {
		return TypeOvernight
	}
	return TypePreAbsence
}

// Overnight leaves display as 외박, with the raw reason in parentheses.
func displayReason(e Entry) string {
	if entryType(e) != TypeOvernight {
		return e.Reason
	}
	if e.Reason == "" {
		return TypeOvernight
	}
	return fmt.Sprintf("%s (%s)", TypeOvernight, e.Reason)
}

var (
	isoDate      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	trailingNote = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

var dateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006. 1. 2.",
	"2006. 1. 2",
	"1/2/2006",
	time.RFC3339,
}

// NormalizeDate reduces an arbitrary feed date to YYYY-MM-DD so that all
// range comparisons stay lexical. Trailing parenthetical annotations such
// as a weekday ("2025-12-22 (월)") are stripped first. Returns "" when the
// value cannot be parsed.
func NormalizeDate(value string) string {
	if value == "" {
		return ""
	}
	if isoDate.MatchString(value) {
		return value
	}
	cleaned := trailingNote.ReplaceAllString(value, "")
	if isoDate.MatchString(cleaned) {
		return cleaned
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}
