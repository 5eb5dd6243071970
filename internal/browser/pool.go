package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LaunchFunc opens a fresh page. The Pool calls it once per checkout.
type LaunchFunc func(ctx context.Context) (Page, error)

// Pool bounds how many browser pages exist at once. Every checkout gets a
// freshly launched page so nothing leaks from one request into the next.
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	launch LaunchFunc
	log    *slog.Logger

	mu     sync.Mutex
	inUse  int
	closed bool
}

// Stats is a snapshot of pool usage.
type Stats struct {
	Size  int `json:"size"`
	InUse int `json:"in_use"`
}

// NewPool creates a pool allowing at most size concurrent pages.
func NewPool(size int, launch LaunchFunc, log *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:    semaphore.NewWeighted(int64(size)),
		size:   size,
		launch: launch,
		log:    log,
	}
}

// Acquire blocks until a slot is free, then launches a page. The page must be
// handed back with Release.
func (p *Pool) Acquire(ctx context.Context) (Page, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a browser slot: %w", err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, ErrPoolClosed
	}
	p.inUse++
	inUse := p.inUse
	p.mu.Unlock()

	page, err := p.launch(ctx)
	if err != nil {
		p.free()
		return nil, err
	}

	p.log.Debug("browser checked out", "in_use", inUse, "size", p.size)
	return page, nil
}

// Release closes page and frees its slot.
func (p *Pool) Release(page Page) {
	if page == nil {
		return
	}
	if err := page.Close(); err != nil {
		p.log.Warn("failed to close browser page", "error", err)
	}
	p.free()
	p.log.Debug("browser checked in")
}

// With runs fn with a checked-out page and always releases it, including when
// fn returns an error or panics.
func (p *Pool) With(ctx context.Context, fn func(Page) error) error {
	page, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(page)
	return fn(page)
}

// Stats reports current usage.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Size: p.size, InUse: p.inUse}
}

// Close stops new checkouts. Pages already handed out stay valid until
// released.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool) free() {
	p.mu.Lock()
	p.inUse--
	p.mu.Unlock()
	p.sem.Release(1)
}
