package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	statementPrefix = "stmrec"
	eventPrefix     = "evtrec"
	eventSeqName    = "evtseq"
)

// makeStatementKey generates a key for a statement by its storage key.
func makeStatementKey(key string) []byte {
	prefix := statementPrefix + ":"
	buf := make([]byte, len(prefix)+len(key))
	offset := copy(buf, prefix)
	copy(buf[offset:], key)
	return buf
}

// makeEventKey generates a key for an event log entry.
// The sequence number is written in BigEndian order so lexicographic sort
// matches append order.
func makeEventKey(seq uint64) []byte {
	prefix := eventPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
