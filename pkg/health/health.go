// Package health provides liveness and readiness checks with HTTP endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Service runs registered checks in the background and serves their
// latest results on /livez and /readyz style endpoints.
type Service struct {
	mu        sync.RWMutex
	liveness  []check
	readiness []check
	results   map[string]error
	ready     bool

	stop chan struct{}
	done chan struct{}
}

// New creates an empty health service. Register checks before Start.
func New() *Service {
	return &Service{
		results: make(map[string]error),
		stop:    make(chan struct{}),
	}
}

// AddLivenessCheck registers a check that decides whether the process
// should be restarted.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that decides whether the process
// should receive traffic.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the overall readiness gate. Checks still run; a false
// gate makes ReadyEndpoint fail regardless of their results.
func (s *Service) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start runs all checks every interval until Stop is called.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.runChecks(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.runChecks(ctx)
			}
		}
	}()
}

// Stop terminates the background check loop and waits for it to exit.
func (s *Service) Stop() {
	close(s.stop)
	if s.done != nil {
		<-s.done
	}
}

func (s *Service) runChecks(ctx context.Context) {
	s.mu.RLock()
	checks := make([]check, 0, len(s.liveness)+len(s.readiness))
	checks = append(checks, s.liveness...)
	checks = append(checks, s.readiness...)
	s.mu.RUnlock()

	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()

		s.mu.Lock()
		s.results[c.name] = err
		s.mu.Unlock()
	}
}

// LiveEndpoint serves the liveness state.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.respond(w, s.liveness, true)
}

// ReadyEndpoint serves the readiness state, including the SetReady gate.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.respond(w, s.readiness, s.ready)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// respond is called with s.mu held for reading.
func (s *Service) respond(w http.ResponseWriter, checks []check, gate bool) {
	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
	healthy := gate
	if !gate {
		resp.Status = "unavailable"
	}
	for _, c := range checks {
		err, ran := s.results[c.name]
		switch {
		case !ran:
			resp.Checks[c.name] = "pending"
		case err != nil:
			resp.Checks[c.name] = err.Error()
			healthy = false
			resp.Status = "unavailable"
		default:
			resp.Checks[c.name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
