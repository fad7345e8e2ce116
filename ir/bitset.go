package ir

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

// denseSet is a growable bitset over small non-negative ints, adapted
// from the teacher's compiler/set.Bits[K]: node ids are dense and
// monotonically allocated (see NewID), so a bitset is a cheap membership
// structure for "is this node currently on the Busy stack" checks that
// run on every single descent step, ahead of the heavier per-node map
// lookup the tracker needs anyway for Done/result bookkeeping.
type denseSet struct {
	b  []uint64
	b0 [4]uint64
}

func makeDenseSet() denseSet {
	var s denseSet
	s.b = s.b0[:]
	return s
}

func (s *denseSet) ij(id int) (int, int) {
	return id / 64, id % 64
}

func (s *denseSet) grow(i int) {
	if s.b == nil {
		s.b = s.b0[:]
	}

	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}

func (s *denseSet) Set(id int) {
	i, j := s.ij(id)
	s.grow(i)
	s.b[i] |= 1 << j
}

func (s *denseSet) Clear(id int) {
	i, j := s.ij(id)
	if i >= len(s.b) {
		return
	}

	s.b[i] &^= 1 << j
}

func (s *denseSet) IsSet(id int) bool {
	i, j := s.ij(id)
	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s *denseSet) Size() (r int) {
	for _, w := range s.b {
		r += bits.OnesCount64(w)
	}

	return r
}

func (s *denseSet) Range(f func(id int) bool) {
	for i, w := range s.b {
		if w == 0 {
			continue
		}

		for j := bits.TrailingZeros64(w); j < 64; j++ {
			if w&(1<<j) == 0 {
				continue
			}

			if !f(i*64 + j) {
				return
			}
		}
	}
}

func (s denseSet) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(id int) bool {
		b = e.AppendInt(b, id)
		return true
	})

	return e.AppendBreak(b)
}
