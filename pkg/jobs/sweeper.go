package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one pass of periodic background work.
type Task func(ctx context.Context) error

// SweeperConfig configures how often a task runs and how failures retry.
type SweeperConfig struct {
	Interval   time.Duration
	MaxRetries int
	RetryDelay time.Duration
	RunOnStart bool
	Logger     *zap.Logger
}

// Sweeper runs a task on a fixed interval until stopped. A failed pass is
// retried up to MaxRetries times before waiting for the next tick.
type Sweeper struct {
	name string
	task Task

	interval   time.Duration
	maxRetries int
	retryDelay time.Duration
	runOnStart bool
	logger     *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewSweeper builds a sweeper for task.
func NewSweeper(name string, task Task, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Sweeper{
		name:       name,
		task:       task,
		interval:   cfg.Interval,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		runOnStart: cfg.RunOnStart,
		logger:     cfg.Logger,
	}
}

// Start launches the ticker goroutine. Safe to call once.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
	s.started = true
	s.logger.Sugar().Infow("sweeper started", "sweeper", s.name, "interval", s.interval)
}

// Stop cancels the loop and waits for an in-flight pass to return.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()
	s.wg.Wait()
	s.logger.Sugar().Infow("sweeper stopped", "sweeper", s.name)
}

// RunOnce executes a single pass with retries.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err = s.task(ctx); err == nil {
			return nil
		}
		if attempt == s.maxRetries {
			break
		}
		s.logger.Sugar().Warnw("sweep failed, retrying", "sweeper", s.name, "attempt", attempt+1, "error", err)
		timer := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("sweeper %s: %w", s.name, err)
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	if s.runOnStart {
		s.pass(ctx)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Sweeper) pass(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Sugar().Errorw("sweep exceeded retries", "sweeper", s.name, "error", err)
	}
}
