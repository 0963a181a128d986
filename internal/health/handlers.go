package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var draining atomic.Bool

// SetReady toggles readiness. The API flips it to false when shutdown starts
// so load balancers stop routing before connections are drained.
func SetReady(ready bool) {
	draining.Store(!ready)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe checks one dependency.
type Probe struct {
	Name    string
	Timeout time.Duration
	Check   func(ctx context.Context) error
}

// PingProbe wraps a Pinger such as the database pool.
func PingProbe(name string, p Pinger, timeout time.Duration) Probe {
	return Probe{Name: name, Timeout: timeout, Check: p.Ping}
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Probes []Probe
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready runs every probe concurrently and answers 503 when any fails or the
// process is draining.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.check(r.Context())
	code := http.StatusOK
	if draining.Load() {
		status["status"] = "draining"
		code = http.StatusServiceUnavailable
	}
	for _, v := range status {
		if v != "ok" {
			code = http.StatusServiceUnavailable
		}
	}
	if len(h.Probes) == 0 {
		code = http.StatusServiceUnavailable
		status["status"] = "no dependencies configured"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) check(ctx context.Context) map[string]string {
	probes := append([]Probe(nil), h.Probes...)
	sort.SliceStable(probes, func(i, j int) bool { return probes[i].Name < probes[j].Name })

	results := make([]string, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(ctx, p)
		}()
	}
	wg.Wait()

	out := make(map[string]string, len(probes))
	for i, p := range probes {
		out[p.Name] = results[i]
	}
	return out
}

func run(ctx context.Context, p Probe) string {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if p.Check == nil {
		return "not configured"
	}
	if err := p.Check(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
