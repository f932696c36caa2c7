package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/TemirB/sales-dashboard/internal/config"
)

var ErrOpenState = errors.New("circuit breaker is open")

type State uint8

const (
	Closed   State = iota // normal operation
	Open                  // calls rejected until OpenTimeout passes
	HalfOpen              // up to MaxHalfOpen trial calls
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker opens after Threshold consecutive failures, stays open for
// OpenTimeout and then lets MaxHalfOpen trial calls through. Callers report
// outcomes with Success and Failure, or hand an allowed call back with
// Release when it ended without an outcome.
type Breaker struct {
	mu        sync.Mutex
	cfg       config.Breaker
	state     State
	failCount uint32
	openedAt  time.Time
	trials    uint32
	now       func() time.Time
}

func New(cfg config.Breaker) *Breaker {
	return &Breaker{
		cfg:   cfg,
		state: Closed,
		now:   time.Now,
	}
}

func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrOpenState
		}
		b.state = HalfOpen
		b.trials = 1
		return nil
	case HalfOpen:
		if b.trials >= b.cfg.MaxHalfOpen {
			return ErrOpenState
		}
		b.trials++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failCount = 0
	if b.state == HalfOpen {
		b.state = Closed
		b.trials = 0
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		b.failCount++
		if b.failCount >= b.cfg.Threshold {
			b.open()
		}
	case HalfOpen:
		b.open()
	}
}

// Release returns a half-open trial slot taken by Allow.
func (b *Breaker) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == HalfOpen && b.trials > 0 {
		b.trials--
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) open() {
	b.state = Open
	b.openedAt = b.now()
	b.failCount = 0
	b.trials = 0
}
