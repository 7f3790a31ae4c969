package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/persistmap/internal/common"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string, opts Options) *JournalStore {
	t.Helper()
	s, err := OpenOrCreate(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestJournalStore_PutGetRemove(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "map.db"), Options{})

	require.NoError(t, s.Put(ctx, "x", "1"))

	got, err := s.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "1", got)

	require.NoError(t, s.Remove(ctx, "x"))

	_, err = s.Get(ctx, "x")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestJournalStore_OverwriteKeepsLatestValue(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "map.db"), Options{})

	require.NoError(t, s.Put(ctx, "x", "1"))
	require.NoError(t, s.Put(ctx, "x", "2"))

	got, err := s.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, "2", got)

	n, err := s.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestJournalStore_KeysInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "map.db"), Options{})

	require.NoError(t, s.Put(ctx, "b", "2"))
	require.NoError(t, s.Put(ctx, "a", "1"))
	require.NoError(t, s.Put(ctx, "c", "3"))
	// Overwrite must not move the key.
	require.NoError(t, s.Put(ctx, "b", "22"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, keys)
}

func TestJournalStore_RemoveAbsentKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "map.db"), Options{})

	require.NoError(t, s.Put(ctx, "x", "1"))
	require.NoError(t, s.Remove(ctx, "ghost"))

	n, err := s.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestJournalStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "map.db")

	s, err := OpenOrCreate(path, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "x", "1"))
	require.NoError(t, s.Put(ctx, "y", "2"))
	require.NoError(t, s.Remove(ctx, "x"))
	require.NoError(t, s.Put(ctx, "z", "3"))
	require.NoError(t, s.Close())

	s2 := openTestStore(t, path, Options{})

	_, err = s2.Get(ctx, "x")
	require.ErrorIs(t, err, common.ErrorNotFound)

	got, err := s2.Get(ctx, "y")
	require.NoError(t, err)
	require.Equal(t, "2", got)

	keys, err := s2.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"y", "z"}, keys)
}

func TestJournalStore_CompactionPreservesState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "map.db")

	s, err := OpenOrCreate(path, Options{CompactThreshold: 5})
	require.NoError(t, err)

	// Same key over and over piles up dead records and trips compaction.
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Put(ctx, "hot", fmt.Sprintf("v%d", i)))
	}
	require.NoError(t, s.Put(ctx, "cold", "stays"))
	require.NoError(t, s.Close())

	s2 := openTestStore(t, path, Options{})

	got, err := s2.Get(ctx, "hot")
	require.NoError(t, err)
	require.Equal(t, "v19", got)

	got, err = s2.Get(ctx, "cold")
	require.NoError(t, err)
	require.Equal(t, "stays", got)

	n, err := s2.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestJournalStore_WritesAfterCrashRecoverySurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "map.db")

	s, err := OpenOrCreate(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a", "1"))
	require.NoError(t, s.Close())

	// Simulate a crash mid-write: a length prefix promising more bytes
	// than the file holds.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x00, 0x00, 0x01, 0x00, '{', '"'})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// First recovery: the committed entry is back and new writes land
	// where the next replay will see them.
	s2, err := OpenOrCreate(path, Options{})
	require.NoError(t, err)

	got, err := s2.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "1", got)

	require.NoError(t, s2.Put(ctx, "b", "2"))
	require.NoError(t, s2.Close())

	// Second recovery: the post-crash write must still be there.
	s3 := openTestStore(t, path, Options{})

	got, err = s3.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "2", got)

	got, err = s3.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "1", got)

	keys, err := s3.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)
}

func TestJournalStore_CorruptJournalFailsOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "map.db")

	s, err := OpenOrCreate(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a", "1"))
	require.NoError(t, s.Close())

	// A complete but undecodable record in the middle of the file is
	// corruption, not a torn tail, and must not be silently dropped.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x00, 0x00, 0x00, 0x04, 'x', 'x', 'x', 'x'})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenOrCreate(path, Options{})
	require.ErrorIs(t, err, common.ErrorJournalCorrupt)
}

func TestJournalStore_CreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "deep", "map.db")

	s := openTestStore(t, path, Options{})
	require.NoError(t, s.Put(ctx, "x", "1"))
}

func TestJournalStore_CanceledContext(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "map.db"), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Put(ctx, "x", "1"))
	_, err := s.Get(ctx, "x")
	require.Error(t, err)
}
