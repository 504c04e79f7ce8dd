package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"vic/attendance/internal/absence"
	"vic/attendance/internal/attendance"
	"vic/attendance/internal/config"
	"vic/attendance/internal/db"
	internalhttp "vic/attendance/internal/http"
	"vic/attendance/internal/jobs"
	"vic/attendance/internal/localstore"
	"vic/attendance/internal/notify"
	"vic/attendance/internal/portal"
	"vic/attendance/internal/realtime"
	"vic/attendance/internal/roster"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv load error: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer pool.Close()
	store := db.NewStore(pool)

	local, err := localstore.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("local store init failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
	}

	students, err := store.ListStudents(ctx)
	if err != nil {
		log.Printf("student roster load failed, using seeded roster: %v", err)
	}
	if len(students) == 0 {
		students = roster.Seed()
	}
	directory := roster.NewDirectory(students)

	absences := absence.New(cfg.AbsenceFeedURL, cfg.AbsenceFeedFile, cfg.AbsenceCacheTTL)

	var sheets *attendance.Service
	hub := realtime.NewHub(realtime.DayListerFunc(func(ctx context.Context, date string) ([]attendance.Snapshot, error) {
		return sheets.Day(ctx, date)
	}))

	// Single-instance fallback: notify this process's sockets directly.
	var publisher attendance.ChangePublisher = hub
	var leases *realtime.LeaseManager
	if redisClient != nil {
		publisher = realtime.NewPublisher(redisClient)
		leases = realtime.NewLeaseManager(redisClient, cfg.EditLeaseTTL)
	}

	sheets = attendance.NewService(store, local, absences, publisher, attendance.NewRosterSeats(directory))

	// Subscribed only once the service the hub's lister reads exists;
	// nothing can notify the hub before this point.
	if redisClient != nil {
		realtime.Subscribe(ctx, redisClient, func(date string) {
			hub.Notify(ctx, date)
		})
	}

	pages, err := portal.NewHTTPPageFactory(cfg.PortalBaseURL, cfg.PortalID, cfg.PortalPassword)
	if err != nil {
		// The rest of the service works without SMS; dispatch requests
		// fail with a clear error instead.
		log.Printf("sms dispatch disabled: %v", err)
		pages = func(context.Context) (portal.Page, error) {
			return nil, errors.New("portal credentials not configured")
		}
	}
	dispatcher := portal.NewDispatcher(pages, cfg.ProductionStart)

	server := internalhttp.NewServer(cfg, sheets, store, local, directory, absences, dispatcher, hub, leases, notify.New(cfg.ReportWebhookURL))
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	jobs.StartAbsenceRefreshJob(ctx, cfg, absences)

	go func() {
		log.Printf("attendance http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
