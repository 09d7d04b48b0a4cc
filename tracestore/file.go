package tracestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shamaton/msgpack/v2"
)

// FileStore persists TraceRecords as a stream of msgpack messages appended
// to a single file, the on-disk counterpart to Memory. It is safe for
// concurrent use: per spec.md §5, the engine itself is single-threaded, but
// a driver may checkpoint traces from a separate goroutine, so FileStore
// carries its own mutex rather than relying on the caller to serialize
// access.
type FileStore struct {
	mu      sync.Mutex
	path    string
	f       *os.File
	records map[Hash]TraceRecord
	order   []Hash
}

// OpenFileStore opens (creating if necessary) path and replays any records
// already on disk so Has/List reflect prior runs immediately.
func OpenFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("tracestore: open %s: %w", path, err)
	}

	fs := &FileStore{
		path:    path,
		f:       f,
		records: make(map[Hash]TraceRecord),
	}
	if err := fs.loadExisting(); err != nil {
		f.Close()
		return nil, fmt.Errorf("tracestore: replay %s: %w", path, err)
	}
	return fs, nil
}

func (fs *FileStore) loadExisting() error {
	if _, err := fs.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	for {
		var rec TraceRecord
		if err := msgpack.UnmarshalRead(fs.f, &rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		h, _, err := hashRecord(rec)
		if err != nil {
			return err
		}
		if _, ok := fs.records[h]; !ok {
			fs.records[h] = rec
			fs.order = append(fs.order, h)
		}
	}
	_, err := fs.f.Seek(0, io.SeekEnd)
	return err
}

func (fs *FileStore) Put(rec TraceRecord) (Hash, error) {
	h, _, err := hashRecord(rec)
	if err != nil {
		return 0, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.records[h]; ok {
		return h, nil
	}
	if err := msgpack.MarshalWrite(fs.f, &rec); err != nil {
		return 0, fmt.Errorf("tracestore: write record: %w", err)
	}
	fs.records[h] = rec
	fs.order = append(fs.order, h)
	return h, nil
}

func (fs *FileStore) Has(h Hash) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, ok := fs.records[h]
	return ok
}

func (fs *FileStore) List() []TraceRecord {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]TraceRecord, len(fs.order))
	for i, h := range fs.order {
		out[i] = fs.records[h]
	}
	return out
}

// Close releases the backing file handle.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.f.Close()
}
