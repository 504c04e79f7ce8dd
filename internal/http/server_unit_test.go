package http

import (
	"regexp"
	"testing"
	"time"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearerabc":    "",
		"Bearer":       "",
		"Bearer a b":   "a b",
	}
	for header, want := range cases {
		if got := bearerToken(header); got != want {
			t.Fatalf("header %q: expected %q got %q", header, want, got)
		}
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2026-01-08", "2025-12-22"}
	for _, date := range valid {
		if !validDate(date) {
			t.Fatalf("expected %s to be valid", date)
		}
	}
	invalid := []string{"", "2026-1-8", "2026/01/08", "20260108", "2026-13-01", "tomorrow"}
	for _, date := range invalid {
		if validDate(date) {
			t.Fatalf("expected %s to be invalid", date)
		}
	}
}

func TestReadOnlyFor(t *testing.T) {
	now := time.Date(2026, 1, 8, 14, 30, 0, 0, time.Local)
	if !readOnlyFor("2026-01-07", now) {
		t.Fatalf("yesterday should be read-only")
	}
	if readOnlyFor("2026-01-08", now) {
		t.Fatalf("today should be editable")
	}
	if readOnlyFor("2026-01-09", now) {
		t.Fatalf("tomorrow should be editable")
	}
}

func TestIncidentCodeFormat(t *testing.T) {
	now := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ERR-18-[0-9A-Z]{4}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code := incidentCode(now)
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected code format: %s", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("codes should vary, got %v", seen)
	}

	december := incidentCode(time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC))
	if !regexp.MustCompile(`^ERR-1222-[0-9A-Z]{4}$`).MatchString(december) {
		t.Fatalf("month and day are not zero padded: %s", december)
	}
}
