package jobs

import (
	"context"
	"log"
	"time"

	"vic/attendance/internal/absence"
	"vic/attendance/internal/config"
)

// StartAbsenceRefreshJob keeps the pre-absence cache warm so the first
// check-in of the morning never waits on the feed.
func StartAbsenceRefreshJob(ctx context.Context, cfg config.Config, svc *absence.Service) {
	if !cfg.AbsenceRefreshJobEnabled {
		return
	}
	if svc == nil {
		log.Printf("absence refresh job disabled: absence service not configured")
		return
	}
	interval := cfg.AbsenceRefreshJobInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	timeout := cfg.AbsenceRefreshJobTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				err := svc.Refresh(tickCtx)
				cancel()
				if err != nil {
					log.Printf("absence refresh job error: %v", err)
				}
			}
		}
	}()
}
