package lazy

import "fmt"

// Position is a leaf of the parse tree paired with the context constraint
// under which it may match.
type Position struct {
	// Index is the token index of the leaf.
	Index uint32

	// Constraint restricts the contexts in which the position matches.
	Constraint Constraint
}

// String renders the position as "index" or "index:constraint" when the
// position is constrained.
func (p Position) String() string {
	if p.Constraint == NoConstraint {
		return fmt.Sprint(p.Index)
	}
	return fmt.Sprintf("%d:%03o", p.Index, uint16(p.Constraint))
}

// PositionSet is a set of positions ordered by decreasing index.
// Each index occurs at most once.
type PositionSet []Position

// search returns the slot of index and whether it is present.
func (s PositionSet) search(index uint32) (int, bool) {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case s[mid].Index > index:
			lo = mid + 1
		case s[mid].Index == index:
			return mid, true
		default:
			hi = mid
		}
	}
	return lo, false
}

// Insert adds p, ORing its constraint into an existing entry with the same
// index.
func (s *PositionSet) Insert(p Position) {
	i, ok := s.search(p.Index)
	if ok {
		(*s)[i].Constraint |= p.Constraint
		return
	}
	*s = append(*s, Position{})
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = p
}

// Contains reports whether index is in the set.
func (s PositionSet) Contains(index uint32) bool {
	_, ok := s.search(index)
	return ok
}

// delete removes index and returns its constraint, or 0 if it was absent.
func (s *PositionSet) delete(index uint32) Constraint {
	i, ok := s.search(index)
	if !ok {
		return 0
	}
	c := (*s)[i].Constraint
	*s = append((*s)[:i], (*s)[i+1:]...)
	return c
}

// Equal reports whether s and o hold the same positions.
func (s PositionSet) Equal(o PositionSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of s that shares no memory with it.
func (s PositionSet) Clone() PositionSet {
	if s == nil {
		return nil
	}
	return append(PositionSet(make([]Position, 0, len(s))), s...)
}

// hash combines index and constraint of every element. It is independent
// of order so equal sets always hash equally.
func (s PositionSet) hash() uint32 {
	var h uint32
	for _, p := range s {
		h ^= p.Index + uint32(p.Constraint)
	}
	return h
}

// mergeSets returns the union of s1 and s2 in a new set.
func mergeSets(s1, s2 PositionSet) PositionSet {
	return mergeConstrained(s1, s2, NoConstraint)
}

// mergeConstrained returns the union of s1 and s2 where every position of s2
// is first narrowed by c2. Positions of s2 left with no constraint bits are
// dropped.
func mergeConstrained(s1, s2 PositionSet, c2 Constraint) PositionSet {
	m := make(PositionSet, 0, len(s1)+len(s2))
	i, j := 0, 0
	for i < len(s1) || j < len(s2) {
		if j >= len(s2) || (i < len(s1) && s1[i].Index >= s2[j].Index) {
			var c Constraint
			if j < len(s2) && s1[i].Index == s2[j].Index {
				c = s2[j].Constraint & c2
				j++
			}
			m = append(m, Position{Index: s1[i].Index, Constraint: s1[i].Constraint | c})
			i++
			continue
		}
		if c := s2[j].Constraint & c2; c != 0 {
			m = append(m, Position{Index: s2[j].Index, Constraint: c})
		}
		j++
	}
	return m
}

// replace substitutes index in s by the positions of add, each narrowed by
// the removed entry's constraint and by c.
func (s *PositionSet) replace(index uint32, add PositionSet, c Constraint) {
	removed := s.delete(index)
	if removed == 0 {
		return
	}
	*s = mergeConstrained(*s, add, removed&c)
}
