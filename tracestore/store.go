package tracestore

// Store is a content-addressed sink for TraceRecords. Put is idempotent:
// storing the same record twice returns the same Hash and does not grow
// List().
type Store interface {
	Put(rec TraceRecord) (Hash, error)
	Has(h Hash) bool
	List() []TraceRecord
}

// hashRecord computes the content address for rec: the farm hash of its
// msgpack encoding, matching the teacher's cas.MemoryCAS.Put.
func hashRecord(rec TraceRecord) (Hash, []byte, error) {
	data, err := encode(rec)
	if err != nil {
		return 0, nil, err
	}
	return Hash(farmHash64(data)), data, nil
}
