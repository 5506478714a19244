package storage

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// AsyncStore hands writes to a background goroutine so a slow disk never
// holds up the caller. Saves that arrive while a write is running collapse
// into one write of the best score seen. Failed writes are logged.
type AsyncStore struct {
	inner HighScoreStore
	log   *log.Logger

	mu      sync.Mutex
	pending int
	dirty   bool
	best    int

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncStore wraps inner and starts the writer. Call Close to flush and
// stop it.
func NewAsyncStore(inner HighScoreStore, logger *log.Logger) *AsyncStore {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	a := &AsyncStore{
		inner: inner,
		log:   logger,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Load returns the stored score, or a higher one still waiting to be written.
func (a *AsyncStore) Load() (int, error) {
	score, err := a.inner.Load()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.best > score {
		return a.best, nil
	}
	return score, err
}

// Save queues score and returns at once.
func (a *AsyncStore) Save(score int) error {
	a.mu.Lock()
	if !a.dirty || score > a.pending {
		a.pending = score
		a.dirty = true
	}
	a.best = max(a.best, score)
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close writes anything still queued and stops the writer. Saves after Close
// are not written.
func (a *AsyncStore) Close() {
	a.closeOnce.Do(func() { close(a.stop) })
	<-a.done
}

func (a *AsyncStore) run() {
	defer close(a.done)
	for {
		select {
		case <-a.wake:
			a.flush()
		case <-a.stop:
			a.flush()
			return
		}
	}
}

func (a *AsyncStore) flush() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	score := a.pending
	a.dirty = false
	a.mu.Unlock()

	if err := a.inner.Save(score); err != nil {
		a.log.Warn("failed to save high score", "score", score, "err", err)
		return
	}
	a.log.Debug("high score written", "score", score)
}
