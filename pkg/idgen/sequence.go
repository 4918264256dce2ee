// Package idgen hands out sequential, prefixed identifiers such as CART-1.
package idgen

import (
	"strconv"
	"sync/atomic"
)

// Sequence provides monotonically increasing ids with a fixed prefix.
// The zero value is not usable; create one with New.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

func New(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns the next id, starting at <prefix>-1.
func (s *Sequence) Next() string {
	return Format(s.prefix, s.n.Add(1))
}

// Format renders n with prefix the same way Next does.
func Format(prefix string, n uint64) string {
	return prefix + "-" + strconv.FormatUint(n, 10)
}
