// Package scores keeps the persisted high-score list: a JSON array of
// name/score pairs stored under one well-known key.
package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	// DefaultKey is the storage key of the list.
	DefaultKey = "flappyRavenScores"
	// DefaultCapacity is the number of entries kept.
	DefaultCapacity = 5
	// UnknownName replaces blank player names.
	UnknownName = "Unknown"
)

// ErrNotFound is returned by a Backend when the key holds no value.
var ErrNotFound = errors.New("scores: key not found")

// Entry is one line of the list.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Backend is a string key/value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Board is the high-score list over a Backend. It is safe for concurrent
// use; Save is a locked read-modify-write.
type Board struct {
	mu       sync.Mutex
	backend  Backend
	key      string
	capacity int
	logger   *log.Logger
}

// NewBoard creates a board. Empty key and non-positive capacity take the
// defaults.
func NewBoard(backend Backend, key string, capacity int, logger *log.Logger) *Board {
	if key == "" {
		key = DefaultKey
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Board{backend: backend, key: key, capacity: capacity, logger: logger}
}

// Key returns the storage key.
func (b *Board) Key() string {
	return b.key
}

// Capacity returns the maximum number of entries.
func (b *Board) Capacity() int {
	return b.capacity
}

// Load returns the stored list, best first. Missing or unreadable data
// yields an empty list.
func (b *Board) Load(ctx context.Context) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

func (b *Board) load(ctx context.Context) []Entry {
	data, err := b.backend.Get(ctx, b.key)
	if errors.Is(err, ErrNotFound) {
		return []Entry{}
	}
	if err != nil {
		b.logger.Warn("cannot read high scores", "key", b.key, "error", err)
		return []Entry{}
	}
	list, err := Decode(data)
	if err != nil {
		b.logger.Warn("discarding corrupt high scores", "key", b.key, "error", err)
		return []Entry{}
	}
	return list
}

// Save records a run and returns the updated list.
func (b *Board) Save(ctx context.Context, name string, score int) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = NormalizeName(name)
	list := Insert(b.load(ctx), Entry{Name: name, Score: score}, b.capacity)
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("scores: encode: %w", err)
	}
	if err := b.backend.Put(ctx, b.key, data); err != nil {
		return nil, fmt.Errorf("scores: save %s: %w", b.key, err)
	}
	b.logger.Debug("high score saved", "key", b.key, "name", name, "score", score)
	return list, nil
}

// Qualifies reports whether score would enter the current list.
func (b *Board) Qualifies(ctx context.Context, score int) bool {
	list := b.Load(ctx)
	return len(list) < b.capacity || score > list[len(list)-1].Score
}

// Insert appends e, sorts by score descending keeping the relative order of
// equal scores, and truncates to capacity. list is not modified.
func Insert(list []Entry, e Entry, capacity int) []Entry {
	out := make([]Entry, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, e)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if capacity > 0 && len(out) > capacity {
		out = out[:capacity]
	}
	return out
}

// Decode parses a stored list. A JSON null decodes to an empty list.
func Decode(data []byte) ([]Entry, error) {
	var list []Entry
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("scores: decode: %w", err)
	}
	if list == nil {
		list = []Entry{}
	}
	return list, nil
}

// NormalizeName trims name and substitutes UnknownName for blanks.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownName
	}
	return name
}
