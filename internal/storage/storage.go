// Package storage persists the best score across sessions.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrCorrupt is returned when a high score file exists but cannot be decoded.
var ErrCorrupt = errors.New("high score file is corrupt")

// HighScoreStore reads and writes the single best score.
type HighScoreStore interface {
	Load() (int, error)
	Save(score int) error
}

type record struct {
	HighScore int       `toml:"high_score"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// FileStore keeps the high score in a small TOML file. Writes go to a
// temporary file in the same directory which is then renamed over the target.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Load returns the stored score, or 0 if the file does not exist yet.
func (s *FileStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading high score %s: %w", s.path, err)
	}

	var rec record
	if _, err := toml.Decode(string(data), &rec); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if rec.HighScore < 0 {
		return 0, fmt.Errorf("%w: %s: negative score %d", ErrCorrupt, s.path, rec.HighScore)
	}
	return rec.HighScore, nil
}

// Save replaces the stored score.
func (s *FileStore) Save(score int) error {
	if score < 0 {
		return fmt.Errorf("saving high score: negative score %d", score)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating high score dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".highscore-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	rec := record{HighScore: score, UpdatedAt: s.now().UTC().Truncate(time.Second)}
	if err := toml.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding high score: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing high score: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing high score %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps the score in memory. Used by tests and when no file is
// configured.
type MemoryStore struct {
	mu    sync.Mutex
	score int
	saves int
	err   error
}

// NewMemoryStore returns a store holding initial.
func NewMemoryStore(initial int) *MemoryStore {
	return &MemoryStore{score: initial}
}

func (m *MemoryStore) Load() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

func (m *MemoryStore) Save(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.score = score
	m.saves++
	return nil
}

// Saves returns how many successful writes have happened.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailWith makes every following Save return err. Pass nil to recover.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Shared lets several sessions write the same store. A Save only goes
// through when it beats what is currently stored, so a session that loaded
// an older high score cannot overwrite a better one.
type Shared struct {
	mu    sync.Mutex
	inner HighScoreStore
}

// NewShared wraps inner.
func NewShared(inner HighScoreStore) *Shared {
	return &Shared{inner: inner}
}

func (s *Shared) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Load()
}

// Save writes score if it is higher than the stored value. An unreadable
// stored value is overwritten.
func (s *Shared) Save(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.inner.Load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if err == nil && score <= current {
		return nil
	}
	return s.inner.Save(score)
}
