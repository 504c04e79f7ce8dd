package http

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vic/attendance/internal/absence"
	"vic/attendance/internal/attendance"
	"vic/attendance/internal/auth"
	"vic/attendance/internal/config"
	"vic/attendance/internal/db"
	"vic/attendance/internal/layout"
	"vic/attendance/internal/localstore"
	"vic/attendance/internal/notify"
	"vic/attendance/internal/portal"
	"vic/attendance/internal/realtime"
	"vic/attendance/internal/roster"
)

var (
	savesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_saves_total",
		Help: "Final snapshot saves by zone.",
	}, []string{"zone"})
	smsResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sms_dispatch_results_total",
		Help: "Per-student SMS dispatch outcomes.",
	}, []string{"status"})
)

type Server struct {
	cfg        config.Config
	sheets     *attendance.Service
	store      *db.Store
	local      *localstore.Store
	directory  *roster.Directory
	absences   *absence.Service
	dispatcher *portal.Dispatcher
	hub        *realtime.Hub
	leases     *realtime.LeaseManager
	notifier   *notify.Notifier
}

func NewServer(cfg config.Config, sheets *attendance.Service, store *db.Store, local *localstore.Store, directory *roster.Directory, absences *absence.Service, dispatcher *portal.Dispatcher, hub *realtime.Hub, leases *realtime.LeaseManager, notifier *notify.Notifier) *Server {
	return &Server{
		cfg:        cfg,
		sheets:     sheets,
		store:      store,
		local:      local,
		directory:  directory,
		absences:   absences,
		dispatcher: dispatcher,
		hub:        hub,
		leases:     leases,
		notifier:   notifier,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.With(s.authMiddleware).Post("/api/test-sms", s.handleTestSMS)
	r.With(s.authMiddleware).Post("/api/send-absent-sms", s.handleSendAbsentSMS)

	r.With(s.authMiddleware).Get("/zones", s.handleListZones)
	r.With(s.authMiddleware).Get("/zones/{zoneId}/layout", s.handleZoneLayout)

	r.With(s.authMiddleware).Get("/attendance/{date}", s.handleDay)
	r.With(s.authMiddleware).Get("/attendance/{zoneId}/{date}", s.handleGetSheet)
	r.With(s.authMiddleware).Put("/attendance/{zoneId}/{date}", s.handleSaveSheet)
	r.With(s.authMiddleware).Put("/attendance/{zoneId}/{date}/temp", s.handleTempSave)
	r.With(s.authMiddleware).Post("/attendance/{zoneId}/{date}/lease", s.handleAcquireLease)
	r.With(s.authMiddleware).Delete("/attendance/{zoneId}/{date}/lease", s.handleReleaseLease)

	r.With(s.authMiddleware).Get("/ws/attendance", s.handleWebsocket)

	r.With(s.authMiddleware).Get("/notices/{date}", s.handleGetNotice)
	r.With(s.authMiddleware).Put("/notices/{date}", s.handlePutNotice)
	r.With(s.authMiddleware).Delete("/notices/{date}", s.handleDeleteNotice)

	r.With(s.authMiddleware).Get("/staff/{date}", s.handleStaffForDate)
	r.With(s.authMiddleware).Get("/absences/{date}", s.handleAbsencesForDate)
	r.With(s.authMiddleware).Post("/absences/refresh", s.handleAbsenceRefresh)

	r.With(s.authMiddleware).Post("/reports/absentees/{date}", s.handleAbsenteeReport)

	r.With(s.authMiddleware).Post("/bug-reports", s.handleCreateBugReport)
	r.With(s.authMiddleware).Get("/bug-reports", s.handleListBugReports)

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			// Browsers cannot set headers on websocket dials.
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// Health and SMS

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"mode":                s.dispatcher.Mode(),
		"productionStartDate": s.dispatcher.ProductionStart().Format(time.RFC3339),
	})
}

func (s *Server) handleTestSMS(w http.ResponseWriter, r *http.Request) {
	report, err := s.dispatcher.SendTest(r.Context())
	if err != nil {
		log.Printf("test sms failed: %v", err)
		writeError(w, http.StatusBadGateway, "sms_dispatch_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": report.Message})
}

type sendAbsentRequest struct {
	AbsentStudents []portal.AbsentStudent `json:"absentStudents"`
}

func (s *Server) handleSendAbsentSMS(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	var req sendAbsentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if s.dispatcher.Mode() == "production" && len(req.AbsentStudents) == 0 {
		writeError(w, http.StatusBadRequest, "missing_students")
		return
	}

	report, err := s.dispatcher.SendAbsent(r.Context(), req.AbsentStudents)
	if err != nil {
		log.Printf("sms dispatch failed: %v", err)
		writeError(w, http.StatusBadGateway, "sms_dispatch_failed")
		return
	}
	s.logSMSResults(r.Context(), claims, req.AbsentStudents, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) logSMSResults(ctx context.Context, claims *auth.Claims, students []portal.AbsentStudent, report *portal.Report) {
	date := time.Now().Format("2006-01-02")
	sentBy := ""
	if claims != nil {
		sentBy = claims.StaffName
	}
	byName := make(map[string]portal.AbsentStudent, len(students))
	for _, st := range students {
		byName[st.Name] = st
	}
	for _, result := range report.Results {
		smsResultsTotal.WithLabelValues(result.Status).Inc()
		entry := db.SMSLogEntry{
			ID:        uuid.NewString(),
			Date:      date,
			StudentID: byName[result.Student].StudentID,
			Mode:      report.Mode,
			Success:   result.Status == "success",
			Detail:    result.Message,
			SentBy:    sentBy,
			CreatedAt: time.Now().UTC(),
		}
		if student, ok := s.directory.ByNumber(entry.StudentID); ok {
			entry.SeatID = student.SeatID
		}
		if err := s.store.InsertSMSLog(ctx, entry); err != nil {
			log.Printf("sms log insert failed: %v", err)
		}
	}
}

// Zones

func (s *Server) handleListZones(w http.ResponseWriter, _ *http.Request) {
	type zoneInfo struct {
		ZoneID      string `json:"zoneId"`
		Grade       int    `json:"grade"`
		SeatCount   int    `json:"seatCount"`
		SeatsPerRow int    `json:"seatsPerRow"`
		Assigned    int    `json:"assigned"`
	}
	out := make([]zoneInfo, 0, len(layout.Zones))
	for _, spec := range layout.Zones {
		out = append(out, zoneInfo{
			ZoneID:      spec.Prefix,
			Grade:       spec.Grade,
			SeatCount:   spec.SeatCount,
			SeatsPerRow: spec.SeatsPerRow,
			Assigned:    len(s.directory.AssignedSeats(spec.Prefix)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleZoneLayout(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "zoneId")
	spec, ok := layout.Zone(zoneID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_zone")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zoneId": spec.Prefix,
		"rows":   layout.ForZone(spec.Prefix),
	})
}

// Attendance

type sheetResponse struct {
	ZoneID     string                  `json:"zoneId"`
	Date       string                  `json:"date"`
	Source     attendance.Source       `json:"source"`
	ReadOnly   bool                    `json:"readOnly"`
	RecordedBy string                  `json:"recordedBy,omitempty"`
	Records    []attendance.SeatRecord `json:"records"`
	Notes      map[string]string       `json:"notes"`
	Summary    attendance.Summary      `json:"summary"`
}

func sheetToResponse(sheet *attendance.Sheet) sheetResponse {
	return sheetResponse{
		ZoneID:     sheet.ZoneID,
		Date:       sheet.Date,
		Source:     sheet.Source,
		ReadOnly:   sheet.ReadOnly,
		RecordedBy: sheet.RecordedBy,
		Records:    sheet.Records(),
		Notes:      sheet.Notes(),
		Summary:    sheet.Summary(),
	}
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "zoneId")
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	sheet, err := s.sheets.LoadSheet(r.Context(), zoneID, date, readOnlyFor(date, time.Now()))
	if errors.Is(err, attendance.ErrUnknownZone) {
		writeError(w, http.StatusNotFound, "unknown_zone")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, sheetToResponse(sheet))
}

type saveSheetRequest struct {
	Records          []attendance.SeatRecord `json:"records"`
	Notes            map[string]string       `json:"notes"`
	ConfirmOverwrite bool                    `json:"confirmOverwrite"`
}

func (s *Server) handleSaveSheet(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	zoneID := chi.URLParam(r, "zoneId")
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}

	var req saveSheetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	sheet, err := s.buildSheet(r.Context(), zoneID, date, req.Records, req.Notes, claims.StaffName)
	if errors.Is(err, attendance.ErrUnknownZone) {
		writeError(w, http.StatusNotFound, "unknown_zone")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	conflict, err := s.sheets.Save(r.Context(), sheet, claims.StaffName, req.ConfirmOverwrite)
	var unchecked *attendance.ErrUncheckedSeats
	switch {
	case errors.As(err, &unchecked):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     "unchecked_seats",
			"unchecked": unchecked.Count,
		})
		return
	case errors.Is(err, attendance.ErrReadOnly):
		writeError(w, http.StatusForbidden, "read_only")
		return
	case err != nil:
		log.Printf("save failed for %s/%s: %v", zoneID, date, err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if conflict != nil {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      "snapshot_exists",
			"recordedBy": conflict.RecordedBy,
			"updatedAt":  conflict.UpdatedAt,
		})
		return
	}
	savesTotal.WithLabelValues(zoneID).Inc()
	writeJSON(w, http.StatusOK, sheetToResponse(sheet))
}

func (s *Server) handleTempSave(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	zoneID := chi.URLParam(r, "zoneId")
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}

	var req saveSheetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	sheet, err := s.buildSheet(r.Context(), zoneID, date, req.Records, req.Notes, claims.StaffName)
	if errors.Is(err, attendance.ErrUnknownZone) {
		writeError(w, http.StatusNotFound, "unknown_zone")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if err := s.sheets.SaveTemp(sheet, claims.StaffName); err != nil {
		if errors.Is(err, attendance.ErrReadOnly) {
			writeError(w, http.StatusForbidden, "read_only")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// buildSheet materializes the client's record set over a fresh sheet so
// the save path always validates against the full seat layout.
func (s *Server) buildSheet(ctx context.Context, zoneID, date string, records []attendance.SeatRecord, notes map[string]string, staff string) (*attendance.Sheet, error) {
	sheet, err := s.sheets.LoadSheet(ctx, zoneID, date, readOnlyFor(date, time.Now()))
	if err != nil {
		return nil, err
	}
	sheet.Apply(records, notes, staff, sheet.Source, true)
	return sheet, nil
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	snapshots, err := s.sheets.Day(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if snapshots == nil {
		snapshots = []attendance.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	s.hub.ServeWS(w, r, date)
}

// Edit leases

func (s *Server) handleAcquireLease(w http.ResponseWriter, r *http.Request) {
	if s.leases == nil {
		writeError(w, http.StatusServiceUnavailable, "leases_unavailable")
		return
	}
	claims := claimsFromContext(r.Context())
	zoneID := chi.URLParam(r, "zoneId")
	date := chi.URLParam(r, "date")

	holder, err := s.leases.Acquire(r.Context(), zoneID, date, claims.StaffName)
	if errors.Is(err, realtime.ErrLeaseHeld) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "lease_held",
			"holder": holder,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"holder": holder})
}

func (s *Server) handleReleaseLease(w http.ResponseWriter, r *http.Request) {
	if s.leases == nil {
		writeError(w, http.StatusServiceUnavailable, "leases_unavailable")
		return
	}
	claims := claimsFromContext(r.Context())
	zoneID := chi.URLParam(r, "zoneId")
	date := chi.URLParam(r, "date")

	if err := s.leases.Release(r.Context(), zoneID, date, claims.StaffName); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Daily notices

func (s *Server) handleGetNotice(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	notice, err := s.store.GetNotice(r.Context(), date)
	if err != nil {
		log.Printf("notice load failed for %s, using local fallback: %v", date, err)
		if cached, ok := s.local.LoadNotice(date); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if notice == nil {
		writeError(w, http.StatusNotFound, "notice_not_found")
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

type putNoticeRequest struct {
	Content string `json:"content"`
}

func (s *Server) handlePutNotice(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	date := chi.URLParam(r, "date")
	var req putNoticeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "missing_content")
		return
	}
	notice := localstore.Notice{Date: date, Content: req.Content, Author: claims.StaffName}
	if err := s.store.UpsertNotice(r.Context(), notice); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	// Both stores are written together so the local copy can serve reads
	// when the database is down.
	if err := s.local.SaveNotice(notice); err != nil {
		log.Printf("notice mirror failed for %s: %v", date, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNotice(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := s.store.DeleteNotice(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if err := s.local.DeleteNotice(date); err != nil {
		log.Printf("notice mirror delete failed for %s: %v", date, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Staff and absences

func (s *Server) handleStaffForDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	duty := roster.StaffForDate(date)
	if duty.Grade1 == nil && duty.Grade2 == nil {
		writeError(w, http.StatusNotFound, "no_duty_staff")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":      date,
		"temporary": roster.IsTemporaryPeriod(date),
		"staff":     duty,
	})
}

func (s *Server) handleAbsencesForDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	type absentee struct {
		StudentID string `json:"studentId"`
		Name      string `json:"name"`
		Type      string `json:"type"`
		Reason    string `json:"reason"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	entries := s.absences.AllAbsentOn(r.Context(), date)
	out := make([]absentee, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name
		if student, ok := s.directory.ByNumber(entry.StudentID); ok {
			name = student.Name
		}
		out = append(out, absentee{
			StudentID: entry.StudentID,
			Name:      name,
			Type:      entry.Type,
			Reason:    entry.Reason,
			StartDate: entry.StartDate,
			EndDate:   entry.EndDate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAbsenceRefresh(w http.ResponseWriter, r *http.Request) {
	s.absences.Invalidate()
	if err := s.absences.Refresh(r.Context()); err != nil {
		log.Printf("absence refresh failed: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Absentee report webhook

func (s *Server) handleAbsenteeReport(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	if !s.notifier.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "webhook_not_configured")
		return
	}
	snapshots, err := s.sheets.Day(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if err := s.notifier.SendDayReport(r.Context(), date, snapshots, s.directory); err != nil {
		log.Printf("absentee report failed for %s: %v", date, err)
		writeError(w, http.StatusBadGateway, "webhook_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Bug reports

type createBugReportRequest struct {
	Content string `json:"content"`
	Stack   string `json:"stack"`
}

func (s *Server) handleCreateBugReport(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	var req createBugReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "missing_content")
		return
	}
	content := req.Content
	if req.Stack != "" {
		content = content + "\n\n" + req.Stack
	}
	report := localstore.BugReport{
		ID:         uuid.NewString(),
		Code:       incidentCode(time.Now()),
		Content:    content,
		ReportedBy: claims.StaffName,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.InsertBugReport(r.Context(), report); err != nil {
		log.Printf("bug report insert failed: %v", err)
	}
	// The local log keeps the report even when the database is down.
	if err := s.local.AppendBugReport(report); err != nil {
		log.Printf("bug report local append failed: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": report.ID, "code": report.Code})
}

func (s *Server) handleListBugReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListBugReports(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if reports == nil {
		reports = []localstore.BugReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// Utilities

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// readOnlyFor marks past dates as audit-only. Comparison is on the
// local calendar day.
func readOnlyFor(date string, now time.Time) bool {
	return date < now.Format("2006-01-02")
}

const incidentAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// incidentCode generates a user-reportable code like ERR-18-K3QZ.
func incidentCode(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(incidentAlphabet))))
		if err != nil {
			suffix[i] = 'X'
			continue
		}
		suffix[i] = incidentAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ERR-%d%d-%s", int(now.Month()), now.Day(), suffix)
}
