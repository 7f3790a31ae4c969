package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/persistmap/internal/common"
	"github.com/google/uuid"
)

const (
	opPut    = "PUT"
	opRemove = "REMOVE"
)

// record is one journaled mutation. Records are stored as a big-endian
// uint32 length prefix followed by the JSON payload.
type record struct {
	Op    string `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// journal is an append-only mutation log. Every append is fsynced before it
// returns, which is what makes the store's durability guarantee hold.
// Callers are expected to serialize access; JournalStore holds its own lock.
type journal struct {
	path string
	file *os.File
}

func openJournal(path string) (*journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &journal{path: path, file: file}, nil
}

func (j *journal) AppendPut(key, value string) error {
	return j.append(record{Op: opPut, Key: key, Value: value})
}

func (j *journal) AppendRemove(key string) error {
	return j.append(record{Op: opRemove, Key: key})
}

func (j *journal) append(rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal journal record: %w", err)
	}

	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)

	if _, err := j.file.Write(buf); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	return j.file.Sync()
}

// Replay reads the journal from the beginning and feeds every record to the
// matching handler. It reports how many records it applied and the byte
// offset where the valid prefix of the file ends.
//
// An incomplete trailing record means the process died mid-write; replay
// stops there, and the returned offset lets the caller truncate the torn
// bytes away before appending again. Everything before the tear is intact
// because appends are synced one record at a time. A record that is complete
// but undecodable is not a crash artifact — that is real corruption and is
// reported as common.ErrorJournalCorrupt.
func (j *journal) Replay(put func(key, value string) error, remove func(key string) error) (int, int64, error) {
	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("open journal for replay: %w", err)
	}
	defer func() { _ = file.Close() }()

	applied := 0
	valid := int64(0)
	lenBuf := make([]byte, 4)
	for {
		if _, err := io.ReadFull(file, lenBuf); err != nil {
			// io.EOF: clean end. io.ErrUnexpectedEOF: torn length prefix.
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return applied, valid, fmt.Errorf("read journal record length: %w", err)
		}

		data := make([]byte, binary.BigEndian.Uint32(lenBuf))
		if _, err := io.ReadFull(file, data); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return applied, valid, fmt.Errorf("read journal record: %w", err)
		}

		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return applied, valid, fmt.Errorf("record at offset %d: %w", valid, common.ErrorJournalCorrupt)
		}

		switch rec.Op {
		case opPut:
			if err := put(rec.Key, rec.Value); err != nil {
				return applied, valid, fmt.Errorf("replay put: %w", err)
			}
		case opRemove:
			if err := remove(rec.Key); err != nil {
				return applied, valid, fmt.Errorf("replay remove: %w", err)
			}
		default:
			return applied, valid, fmt.Errorf("record at offset %d: unknown op %q: %w", valid, rec.Op, common.ErrorJournalCorrupt)
		}
		applied++
		valid += int64(4 + len(data))
	}

	return applied, valid, nil
}

// TruncateTo drops everything past the valid prefix reported by Replay and
// returns how many bytes were cut. Without this, appends after a crash land
// behind the torn bytes and the next replay would swallow them as payload of
// the tear's bogus length prefix.
func (j *journal) TruncateTo(valid int64) (int64, error) {
	fi, err := os.Stat(j.path)
	if err != nil {
		return 0, fmt.Errorf("stat journal: %w", err)
	}
	if fi.Size() <= valid {
		return 0, nil
	}

	if err := os.Truncate(j.path, valid); err != nil {
		return 0, fmt.Errorf("truncate journal: %w", err)
	}
	return fi.Size() - valid, nil
}

// Rewrite replaces the journal with one put record per live entry. The new
// journal is written to a temp file in the same directory, synced, then
// renamed over the old one, so a crash at any point leaves either the old or
// the new journal fully in place.
func (j *journal) Rewrite(entries []Entry) error {
	dir := filepath.Dir(j.path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.compact-%s", filepath.Base(j.path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create compaction file: %w", err)
	}

	writeAll := func() error {
		lenBuf := make([]byte, 4)
		for _, e := range entries {
			data, err := json.Marshal(record{Op: opPut, Key: e.Key, Value: e.Value})
			if err != nil {
				return fmt.Errorf("marshal journal record: %w", err)
			}
			binary.BigEndian.PutUint32(lenBuf, uint32(len(data)))
			if _, err := tmp.Write(lenBuf); err != nil {
				return fmt.Errorf("write compaction record: %w", err)
			}
			if _, err := tmp.Write(data); err != nil {
				return fmt.Errorf("write compaction record: %w", err)
			}
		}
		return tmp.Sync()
	}

	if err := writeAll(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close compaction file: %w", err)
	}

	if err := j.file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	if err := os.Rename(tmpPath, j.path); err != nil {
		return fmt.Errorf("replace journal: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("reopen journal: %w", err)
	}
	j.file = file
	return nil
}

func (j *journal) Close() error {
	if j.file == nil {
		return nil
	}
	return j.file.Close()
}
