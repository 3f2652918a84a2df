package region

// Set collects points without duplicates.
type Set[T Point] map[T]struct{}

// NewSet returns an empty Set.
func NewSet[T Point]() Set[T] {
	return make(Set[T])
}

// Add p to the set. Adding an equal point twice has no effect.
func (s Set[T]) Add(p T) {
	s[p] = struct{}{}
}

// Has returns true if an equal point is in the set.
func (s Set[T]) Has(p T) bool {
	_, ok := s[p]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

// Slice returns the points in unspecified order.
func (s Set[T]) Slice() []T {
	ret := make([]T, 0, len(s))
	for p := range s {
		ret = append(ret, p)
	}
	return ret
}
