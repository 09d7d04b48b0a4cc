package tracestore

import (
	"github.com/dgryski/go-farm"
	"github.com/shamaton/msgpack/v2"
)

func encode(rec TraceRecord) ([]byte, error) {
	return msgpack.Marshal(rec)
}

func decode(data []byte) (TraceRecord, error) {
	var rec TraceRecord
	err := msgpack.Unmarshal(data, &rec)
	return rec, err
}

func farmHash64(data []byte) uint64 {
	return farm.Hash64(data)
}
