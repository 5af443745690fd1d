// Package state implements closed-world planning states as immutable
// bitsets over the atom table of a ground.Table, together with action
// applicability and successor generation.
package state

import (
	"encoding/binary"
	"iter"
	"math/bits"

	"github.com/aretw0/wayfinder/pkg/ground"
)

// State is an immutable set of ground atoms. Atoms absent from the set are false.
type State struct {
	words []uint64
}

// New builds a state over an atom table of size n holding the given atoms.
func New(n int, atoms ...ground.AtomID) *State {
	s := &State{words: make([]uint64, (n+63)/64)}
	for _, a := range atoms {
		s.words[a/64] |= 1 << (uint(a) % 64)
	}
	return s
}

// Initial returns the initial state of a grounded problem.
func Initial(t *ground.Table) *State {
	return New(t.NumAtoms(), t.Init...)
}

// Has reports whether the atom is true in s.
func (s *State) Has(a ground.AtomID) bool {
	return s.words[a/64]&(1<<(uint(a)%64)) != 0
}

// Len returns the number of true atoms.
func (s *State) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Atoms returns the true atoms in ascending order.
func (s *State) Atoms() []ground.AtomID {
	out := make([]ground.AtomID, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, ground.AtomID(i*64+b))
			w &= w - 1
		}
	}
	return out
}

// Key returns a canonical encoding of the atom set. Two states over the
// same table have equal keys iff they hold the same atoms.
func (s *State) Key() string {
	buf := make([]byte, 8*len(s.words))
	for i, w := range s.words {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return string(buf)
}

// Equal reports whether both states hold the same atoms.
func (s *State) Equal(o *State) bool {
	if len(s.words) != len(o.words) {
		return false
	}
	for i := range s.words {
		if s.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Holds evaluates a literal under the closed-world assumption.
func Holds(s *State, l ground.Literal) bool {
	return s.Has(l.Atom) != l.Negated
}

// Satisfies reports whether every literal holds in s.
func Satisfies(s *State, lits []ground.Literal) bool {
	for _, l := range lits {
		if !Holds(s, l) {
			return false
		}
	}
	return true
}

// Applicable reports whether the precondition of a holds in s.
func Applicable(s *State, a *ground.Action) bool {
	return Satisfies(s, a.Pre)
}

// Apply returns (s - del) ∪ add. Both lists are read against s, so an atom
// in both lists ends up true. s is not modified.
func Apply(s *State, a *ground.Action) *State {
	next := &State{words: make([]uint64, len(s.words))}
	copy(next.words, s.words)
	for _, d := range a.Del {
		next.words[d/64] &^= 1 << (uint(d) % 64)
	}
	for _, ad := range a.Add {
		next.words[ad/64] |= 1 << (uint(ad) % 64)
	}
	return next
}

// Successors lazily yields every applicable action of actions together
// with the state it produces. Stopping the iteration early skips the
// remaining applicability checks.
func Successors(s *State, actions []*ground.Action) iter.Seq2[*ground.Action, *State] {
	return func(yield func(*ground.Action, *State) bool) {
		for _, a := range actions {
			if !Applicable(s, a) {
				continue
			}
			if !yield(a, Apply(s, a)) {
				return
			}
		}
	}
}
