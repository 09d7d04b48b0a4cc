package tracestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() TraceRecord {
	return TraceRecord{
		NumThreads:      2,
		Schedule:        []int{0, 1, 0},
		PreemptionCount: 1,
		Deadlocked:      false,
		Aborted:         false,
	}
}

func TestMemoryPutIsIdempotent(t *testing.T) {
	m := NewMemory()
	rec := sampleRecord()

	h1, err := m.Put(rec)
	require.NoError(t, err)
	h2, err := m.Put(rec)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "same record should hash the same way twice")
	assert.Len(t, m.List(), 1, "duplicate Put should not grow List()")
	assert.True(t, m.Has(h1))
}

func TestMemoryDistinctRecordsGetDistinctHashes(t *testing.T) {
	m := NewMemory()
	a := sampleRecord()
	b := sampleRecord()
	b.Schedule = []int{1, 0, 1}

	ha, err := m.Put(a)
	require.NoError(t, err)
	hb, err := m.Put(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb, "distinct schedules should not collide")
	assert.Len(t, m.List(), 2)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traces.msgpack")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	rec := sampleRecord()
	h, err := fs.Put(rec)
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.Has(h), "record should survive reopen")
	list := reopened.List()
	require.Len(t, list, 1)
	assert.Equal(t, rec.PreemptionCount, list[0].PreemptionCount)
	assert.Equal(t, rec.Schedule, list[0].Schedule)
}

func TestFileStorePutAfterReopenDoesNotDuplicate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traces.msgpack")

	fs, err := OpenFileStore(path)
	require.NoError(t, err)
	rec := sampleRecord()
	_, err = fs.Put(rec)
	require.NoError(t, err)
	fs.Close()

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Put(rec)
	require.NoError(t, err)
	assert.Len(t, reopened.List(), 1, "re-Put of an already-persisted record should not duplicate")
}

func TestMemoryAndFileStoreAgreeOnHash(t *testing.T) {
	rec := sampleRecord()

	m := NewMemory()
	hMem, err := m.Put(rec)
	require.NoError(t, err)

	dir := t.TempDir()
	fs, err := OpenFileStore(filepath.Join(dir, "traces.msgpack"))
	require.NoError(t, err)
	defer fs.Close()
	hFile, err := fs.Put(rec)
	require.NoError(t, err)

	assert.Equal(t, hMem, hFile, "content address should not depend on which Store implementation computed it")
}
