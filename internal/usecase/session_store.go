package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/robfig/cron/v3"
)

type sessionStore struct {
	search SearchUsecase
	conf   config.SessionConfig
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]SearchController
	cron     *cron.Cron
}

func NewSessionStore(conf *config.Config, search SearchUsecase) SessionStore {
	return &sessionStore{
		search:   search,
		conf:     conf.Session,
		now:      time.Now,
		sessions: make(map[string]SearchController),
	}
}

// Get returns the controller of a session, creating it on first use.
func (s *sessionStore) Get(id string) SearchController {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		c = NewSearchController(id, s.search)
		s.sessions[id] = c
	}
	return c
}

// Sweep evicts sessions idle for longer than idle and cancels their
// searches. It returns how many were evicted.
func (s *sessionStore) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var evicted []SearchController
	for id, c := range s.sessions {
		if c.LastActive().Before(cutoff) {
			evicted = append(evicted, c)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	return len(evicted)
}

func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) Start(ctx context.Context) error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.conf.SweepInterval)
	if _, err := s.cron.AddFunc(spec, func() {
		if n := s.Sweep(s.conf.TTL); n > 0 {
			log.Infow(context.Background(), "swept idle sessions", "evicted", n, "remaining", s.Len())
		}
	}); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	s.cron.Start()
	log.Infow(ctx, "session sweeper started", "interval", s.conf.SweepInterval.String(), "ttl", s.conf.TTL.String())
	return nil
}

func (s *sessionStore) Stop(ctx context.Context) error {
	if s.cron != nil {
		select {
		case <-s.cron.Stop().Done():
		case <-ctx.Done():
		}
	}
	s.mu.Lock()
	for id, c := range s.sessions {
		c.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	return nil
}
