package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"vic/attendance/internal/attendance"
)

type fakeLister struct {
	snaps map[string][]attendance.Snapshot
}

func (f *fakeLister) Day(_ context.Context, date string) ([]attendance.Snapshot, error) {
	return f.snaps[date], nil
}

func hubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("date"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, date string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?date=" + date
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readDay(t *testing.T, conn *websocket.Conn) dayMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg dayMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestHubSendsInitialDayState(t *testing.T) {
	lister := &fakeLister{snaps: map[string][]attendance.Snapshot{
		"2026-01-08": {{ZoneID: "4A", Date: "2026-01-08", RecordedBy: "김종규"}},
	}}
	hub := NewHub(lister)
	srv := hubServer(t, hub)

	conn := dial(t, srv, "2026-01-08")
	msg := readDay(t, conn)
	if msg.Type != "day" || msg.Date != "2026-01-08" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(msg.Snapshots) != 1 || msg.Snapshots[0].ZoneID != "4A" {
		t.Fatalf("expected the day's snapshots: %+v", msg.Snapshots)
	}
}

func TestHubNotifyReachesOnlyMatchingDate(t *testing.T) {
	lister := &fakeLister{snaps: map[string][]attendance.Snapshot{
		"2026-01-08": {},
		"2026-01-09": {},
	}}
	hub := NewHub(lister)
	srv := hubServer(t, hub)

	subscribed := dial(t, srv, "2026-01-08")
	other := dial(t, srv, "2026-01-09")
	readDay(t, subscribed)
	readDay(t, other)

	// Snapshot appears, then the date is notified.
	lister.snaps["2026-01-08"] = []attendance.Snapshot{{ZoneID: "3D", Date: "2026-01-08"}}
	waitForSubscribers(t, hub, "2026-01-08", 1)
	hub.Notify(context.Background(), "2026-01-08")

	msg := readDay(t, subscribed)
	if len(msg.Snapshots) != 1 || msg.Snapshots[0].ZoneID != "3D" {
		t.Fatalf("expected updated day list: %+v", msg.Snapshots)
	}

	_ = other.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("other date should not receive the notification")
	}
}

// slowLister stretches the window between target collection and the
// send, so a disconnect can land in between.
type slowLister struct {
	delay time.Duration
	snaps []attendance.Snapshot
}

func (f *slowLister) Day(context.Context, string) ([]attendance.Snapshot, error) {
	time.Sleep(f.delay)
	return f.snaps, nil
}

func TestNotifySurvivesDisconnectDuringFanout(t *testing.T) {
	lister := &slowLister{
		delay: 100 * time.Millisecond,
		snaps: []attendance.Snapshot{{ZoneID: "4A", Date: "2026-01-08"}},
	}
	hub := NewHub(lister)
	srv := hubServer(t, hub)

	for i := 0; i < 3; i++ {
		conn := dial(t, srv, "2026-01-08")
		readDay(t, conn)
		waitForSubscribers(t, hub, "2026-01-08", 1)

		done := make(chan struct{})
		go func() {
			defer close(done)
			hub.Notify(context.Background(), "2026-01-08")
		}()
		// Disconnect while Notify is still building the payload. The
		// dropped client must be skipped, not panicked on.
		time.Sleep(30 * time.Millisecond)
		conn.Close()
		<-done
		waitForSubscribers(t, hub, "2026-01-08", 0)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	lister := &fakeLister{snaps: map[string][]attendance.Snapshot{"2026-01-08": {}}}
	hub := NewHub(lister)
	srv := hubServer(t, hub)

	conn := dial(t, srv, "2026-01-08")
	readDay(t, conn)
	waitForSubscribers(t, hub, "2026-01-08", 1)

	conn.Close()
	waitForSubscribers(t, hub, "2026-01-08", 0)
}

func waitForSubscribers(t *testing.T, hub *Hub, date string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Subscribers(date) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers for %s, got %d", want, date, hub.Subscribers(date))
}

func TestLeaseLifecycle(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run")
	}
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	leases := NewLeaseManager(client, time.Second)
	_ = client.Del(ctx, leaseKey("4A", "2099-01-08")).Err()

	holder, err := leases.Acquire(ctx, "4A", "2099-01-08", "김종규")
	if err != nil || holder != "김종규" {
		t.Fatalf("acquire: holder=%s err=%v", holder, err)
	}

	// Contention reports the current holder.
	holder, err = leases.Acquire(ctx, "4A", "2099-01-08", "이건우")
	if err != ErrLeaseHeld || holder != "김종규" {
		t.Fatalf("expected contention with holder 김종규, got %s err=%v", holder, err)
	}

	if err := leases.Renew(ctx, "4A", "2099-01-08", "김종규"); err != nil {
		t.Fatalf("renew: %v", err)
	}
	if err := leases.Renew(ctx, "4A", "2099-01-08", "이건우"); err != ErrLeaseHeld {
		t.Fatalf("non-holder renew should fail, got %v", err)
	}

	if err := leases.Release(ctx, "4A", "2099-01-08", "김종규"); err != nil {
		t.Fatalf("release: %v", err)
	}
	holder, err = leases.Holder(ctx, "4A", "2099-01-08")
	if err != nil || holder != "" {
		t.Fatalf("lease should be free, holder=%s err=%v", holder, err)
	}

	// TTL expiry frees the lease without a release.
	if _, err := leases.Acquire(ctx, "4A", "2099-01-08", "이건우"); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	holder, _ = leases.Holder(ctx, "4A", "2099-01-08")
	if holder != "" {
		t.Fatalf("lease should expire, holder=%s", holder)
	}
}
