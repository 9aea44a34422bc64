package domain

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ScanKey identifies one discovery request. Two requests with the same key
// may be served by a single git invocation and share one cache entry.
//
// MaxItems is part of the key on purpose: the same root scanned with two
// different caps produces different truncation behavior, so the results are
// not interchangeable.
type ScanKey struct {
	Root     string
	MaxItems int
}

// ID returns a compact, collision-resistant string form of the key,
// suitable for singleflight grouping.
func (k ScanKey) ID() string {
	h := xxhash.New()
	_, _ = h.WriteString(k.Root)
	_, _ = h.Write([]byte{0})

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k.MaxItems))
	_, _ = h.Write(buf[:])

	return fmt.Sprintf("%016x", h.Sum64())
}
