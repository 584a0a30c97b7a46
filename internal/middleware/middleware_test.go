package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
})

func TestLimitMiddleware(t *testing.T) {
	l := NewIPRateLimiter(0, 2)
	h := l.LimitMiddleware(okHandler)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/formulas", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i, addr := range []string{"10.0.0.1:1000", "10.0.0.1:1001"} {
		if code := do(addr); code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i, code)
		}
	}
	if code := do("10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Errorf("want 429 once the burst is spent, got %d", code)
	}
	if code := do("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other client: want 200, got %d", code)
	}
}

func TestLimiterDropsIdleClients(t *testing.T) {
	l := NewIPRateLimiter(0, 1)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	l.now = func() time.Time { return clock }

	if !l.getLimiter("10.0.0.1").Allow() {
		t.Fatal("first request denied")
	}
	clock = start.Add(idleTTL / 2)
	l.getLimiter("10.0.0.2")
	if n := len(l.ips); n != 2 {
		t.Fatalf("want 2 tracked clients, got %d", n)
	}

	clock = start.Add(idleTTL + time.Second)
	l.getLimiter("10.0.0.3")
	if _, ok := l.ips["10.0.0.1"]; ok {
		t.Error("idle client was not dropped")
	}
	if _, ok := l.ips["10.0.0.2"]; !ok {
		t.Error("recent client was dropped")
	}
	if !l.getLimiter("10.0.0.1").Allow() {
		t.Error("returning client should start with a full burst")
	}
}

func TestCORS(t *testing.T) {
	h := CORS("", okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/tools/energy/calc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: want 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("origin: want *, got %q", got)
	}

	h = CORS("https://example.org", okHandler)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.org" {
		t.Errorf("origin: want https://example.org, got %q", got)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body: want ok, got %q", rec.Body.String())
	}
}

func TestLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := Logging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unknown formula", http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tools/nope", nil))

	e := hook.LastEntry()
	if e == nil {
		t.Fatal("no log entry")
	}
	if e.Level != logrus.WarnLevel {
		t.Errorf("level: want warn, got %s", e.Level)
	}
	if e.Data["status"] != http.StatusNotFound {
		t.Errorf("status: want 404, got %v", e.Data["status"])
	}
	if e.Data["path"] != "/tools/nope" {
		t.Errorf("path: want /tools/nope, got %v", e.Data["path"])
	}
}
