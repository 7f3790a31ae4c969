package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/persistmap/internal/common"
	"github.com/dmitrijs2005/persistmap/internal/filex"
	"github.com/dmitrijs2005/persistmap/internal/logging"
)

const defaultCompactThreshold = 1024

// Options tune a JournalStore.
type Options struct {
	// CompactThreshold is the number of dead journal records (overwritten or
	// removed) tolerated before the journal is rewritten with live entries
	// only. Zero or negative selects the default.
	CompactThreshold int

	// Logger receives operational events (open, compaction). Optional.
	Logger logging.Logger
}

// JournalStore is the journal-backed Store implementation. All reads are
// served from memory; the journal is the durable source of truth and is
// replayed on open. Mutations hit the journal first and memory second, so
// memory never gets ahead of disk.
type JournalStore struct {
	mu      sync.RWMutex
	journal *journal
	entries map[string]string
	order   []string // live keys in insertion order
	records int      // records currently in the journal file
	opts    Options
	log     logging.Logger
}

// OpenOrCreate opens the journal at path, creating it (and its parent
// directory) if needed, and recovers the last committed state by replay.
// It tolerates a prior unclean termination: a torn trailing record is
// discarded, everything acknowledged before it is restored.
func OpenOrCreate(path string, opts Options) (*JournalStore, error) {
	if opts.CompactThreshold <= 0 {
		opts.CompactThreshold = defaultCompactThreshold
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	j, err := openJournal(path)
	if err != nil {
		return nil, err
	}

	s := &JournalStore{
		journal: j,
		entries: make(map[string]string),
		opts:    opts,
		log:     opts.Logger.With("component", "store", "path", path),
	}

	replayed, valid, err := j.Replay(s.applyPut, s.applyRemove)
	if err != nil {
		_ = j.Close()
		return nil, err
	}
	s.records = replayed

	// A torn tail left by a crash must be cut off, or the next appends
	// would be hidden behind it and lost on the following replay.
	dropped, err := j.TruncateTo(valid)
	if err != nil {
		_ = j.Close()
		return nil, err
	}
	if dropped > 0 {
		s.log.Warn(context.Background(), "dropped torn journal tail", "bytes", dropped)
	}

	s.log.Info(context.Background(), "store opened", "entries", len(s.order), "journal_records", replayed)
	return s, nil
}

func (s *JournalStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return value, nil
}

func (s *JournalStore) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.journal.AppendPut(key, value); err != nil {
		return err
	}
	if err := s.applyPut(key, value); err != nil {
		return err
	}
	s.records++

	return s.maybeCompact(ctx)
}

// Remove journals and applies the removal even when the key is absent,
// mirroring the map contract where removing a missing key is a no-op.
func (s *JournalStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.journal.AppendRemove(key); err != nil {
		return err
	}
	if err := s.applyRemove(key); err != nil {
		return err
	}
	s.records++

	return s.maybeCompact(ctx)
}

func (s *JournalStore) Size(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

func (s *JournalStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys, nil
}

// Close releases the journal file handle. Durability does not depend on it:
// every acknowledged mutation is already on disk.
func (s *JournalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal.Close()
}

// applyPut updates the in-memory table. Caller holds the write lock
// (or is single-threaded replay during open).
func (s *JournalStore) applyPut(key, value string) error {
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = value
	return nil
}

func (s *JournalStore) applyRemove(key string) error {
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// maybeCompact rewrites the journal once enough dead records accumulate.
// Caller holds the write lock.
func (s *JournalStore) maybeCompact(ctx context.Context) error {
	dead := s.records - len(s.order)
	if dead < s.opts.CompactThreshold {
		return nil
	}

	live := make([]Entry, 0, len(s.order))
	for _, k := range s.order {
		live = append(live, Entry{Key: k, Value: s.entries[k]})
	}

	if err := s.journal.Rewrite(live); err != nil {
		return err
	}
	s.log.Debug(ctx, "journal compacted", "records_before", s.records, "entries", len(live))
	s.records = len(live)
	return nil
}
