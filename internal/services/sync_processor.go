package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Sweeper performs one pass of background work and reports how many items it handled.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SweepFunc adapts a function to Sweeper.
type SweepFunc func(ctx context.Context) (int, error)

func (f SweepFunc) Sweep(ctx context.Context) (int, error) { return f(ctx) }

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// Name identifies the processor in logs (default: "sync")
	Name string

	// PollInterval is how often to sweep (default: 30s)
	PollInterval time.Duration
}

// DefaultSyncProcessorConfig returns sensible defaults
func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		Name:         "sync",
		PollInterval: 30 * time.Second,
	}
}

// SyncProcessor runs a sweeper immediately and then on every poll interval
// until stopped.
type SyncProcessor struct {
	sweeper Sweeper
	config  SyncProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSyncProcessor creates a new sync processor
func NewSyncProcessor(sweeper Sweeper, config SyncProcessorConfig) *SyncProcessor {
	def := DefaultSyncProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.Name == "" {
		config.Name = def.Name
	}
	return &SyncProcessor{
		sweeper: sweeper,
		config:  config,
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("%s processor is already running", p.config.Name)
	}
	if p.sweeper == nil {
		p.mu.Unlock()
		return fmt.Errorf("%s processor has no sweeper", p.config.Name)
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Processor started",
		"processor", p.config.Name,
		"poll_interval", p.config.PollInterval)

	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Processor stopped gracefully", "processor", p.config.Name)
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Processor stop timed out", "processor", p.config.Name)
		return ctx.Err()
	}
}

// IsRunning returns whether the processor is currently running
func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Sweep immediately on startup
	p.sweep(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *SyncProcessor) sweep(ctx context.Context) {
	n, err := p.sweeper.Sweep(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Sweep failed", "processor", p.config.Name, "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Sweep complete", "processor", p.config.Name, "processed", n)
	}
}
