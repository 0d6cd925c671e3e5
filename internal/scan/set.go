package scan

import (
	"fmt"
	"iter"

	"github.com/guidscan/guidscan/internal/guid"
)

// minCapacity is the smallest slot table allocated. Capacity is always a
// power of two so the probe index reduces to a mask.
const minCapacity = 64

// FNV-1a constants; the hash must stay reproducible across runs because
// the growth and probe behavior is part of the set's contract.
const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

// Set is an open-addressing hash set of identifiers with linear probing.
// It grows before the load factor reaches 70% and never shrinks within a
// session. Not safe for concurrent use; the walker serializes access.
type Set struct {
	items []guid.GUID
	used  []bool
	count int
}

// NewSet returns an empty set with the minimum capacity.
func NewSet() *Set {
	return &Set{
		items: make([]guid.GUID, minCapacity),
		used:  make([]bool, minCapacity),
	}
}

// hashGUID is FNV-1a over the 16 raw bytes of the identifier.
func hashGUID(g guid.GUID) uint64 {
	b := g.Bytes()
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// Insert adds g and reports whether it was newly inserted; inserting a
// value already present is a no-op returning false.
func (s *Set) Insert(g guid.GUID) bool {
	// Grow before the insert would push load past 70%.
	if (s.count+1)*10 >= len(s.items)*7 {
		s.grow(len(s.items) * 2)
	}

	mask := uint64(len(s.items) - 1)
	pos := hashGUID(g) & mask
	for {
		if !s.used[pos] {
			s.used[pos] = true
			s.items[pos] = g
			s.count++
			return true
		}
		if s.items[pos] == g {
			return false
		}
		pos = (pos + 1) & mask
	}
}

// Contains reports whether g is in the set.
func (s *Set) Contains(g guid.GUID) bool {
	mask := uint64(len(s.items) - 1)
	pos := hashGUID(g) & mask
	for {
		if !s.used[pos] {
			return false
		}
		if s.items[pos] == g {
			return true
		}
		pos = (pos + 1) & mask
	}
}

// Len returns the number of distinct identifiers stored.
func (s *Set) Len() int {
	return s.count
}

// All yields every stored identifier exactly once, in unspecified order.
func (s *Set) All() iter.Seq[guid.GUID] {
	return func(yield func(guid.GUID) bool) {
		for i, u := range s.used {
			if u && !yield(s.items[i]) {
				return
			}
		}
	}
}

// grow rebuilds the table at newCap. The fresh table is fully populated
// before it replaces the old one, so a failure mid-growth (which in Go
// surfaces as a runtime panic) never leaves the set corrupted.
func (s *Set) grow(newCap int) {
	if newCap < minCapacity {
		newCap = minCapacity
	}
	if newCap&(newCap-1) != 0 {
		panic(fmt.Sprintf("scan: set capacity %d not a power of two", newCap))
	}

	items := make([]guid.GUID, newCap)
	used := make([]bool, newCap)
	mask := uint64(newCap - 1)

	for i, u := range s.used {
		if !u {
			continue
		}
		pos := hashGUID(s.items[i]) & mask
		for used[pos] {
			pos = (pos + 1) & mask
		}
		used[pos] = true
		items[pos] = s.items[i]
	}

	s.items = items
	s.used = used
}
