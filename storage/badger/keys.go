package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/toolrank/core"
)

// Key prefixes for different data types
const (
	callEventPrefix     = "calrec"
	callEventTimePrefix = "calrect"
)

// makeCallEventKey generates a key for a call event by ID.
func makeCallEventKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", callEventPrefix, id))
}

// makeCallTimeKey generates a composite key for the time index.
// Format: prefix:timestamp:id
func makeCallTimeKey(timestamp time.Time, id core.ID) []byte {
	prefix := callEventTimePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCallTimeKey generates a partial key for time range queries.
// Format: prefix:timestamp
func makePartialCallTimeKey(timestamp time.Time) []byte {
	prefix := callEventTimePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
