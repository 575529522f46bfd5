package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ProbeStatus is the result of the last reachability check
type ProbeStatus struct {
	Checked   bool      `json:"checked"`
	Reachable bool      `json:"reachable"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ProbeService checks on a schedule that the loan API answers
type ProbeService struct {
	cron    *cron.Cron
	pinger  Pinger
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	status ProbeStatus
}

// NewProbeService creates a probe running on a cron schedule
// (e.g. "@every 1m")
func NewProbeService(pinger Pinger, schedule string, timeout time.Duration, log *zap.Logger) (*ProbeService, error) {
	s := &ProbeService{
		cron:    cron.New(),
		pinger:  pinger,
		timeout: timeout,
		log:     log,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Check(context.Background()) }); err != nil {
		return nil, fmt.Errorf("probe schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs one check immediately and then follows the schedule
func (s *ProbeService) Start() {
	go s.Check(context.Background())
	s.cron.Start()
	s.log.Info("API probe started")
}

// Stop stops the scheduler and waits for a running check
func (s *ProbeService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("API probe stopped")
}

// Check pings the API once and records the outcome
func (s *ProbeService) Check(ctx context.Context) ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.pinger.Ping(ctx)
	st := ProbeStatus{Checked: true, Reachable: err == nil, CheckedAt: time.Now()}
	if err != nil {
		st.Error = err.Error()
	}

	s.mu.Lock()
	changed := !s.status.Checked || s.status.Reachable != st.Reachable
	s.status = st
	s.mu.Unlock()

	if changed {
		if err != nil {
			s.log.Warn("API unreachable", zap.Error(err))
		} else {
			s.log.Info("API reachable")
		}
	}
	return st
}

// Status returns the last recorded outcome
func (s *ProbeService) Status() ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
