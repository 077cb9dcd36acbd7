package reconcile

import "sort"

// Stats records the keys reconciled under each decision.
type Stats struct {
	keys [3][]string
}

func (s *Stats) record(d Decision, key string) {
	s.keys[d] = append(s.keys[d], key)
}

// Count returns how many nodes got decision d.
func (s *Stats) Count(d Decision) int { return len(s.keys[d]) }

// Keys returns the sorted keys that got decision d.
func (s *Stats) Keys(d Decision) []string {
	out := append([]string(nil), s.keys[d]...)
	sort.Strings(out)
	return out
}

// Total returns the number of nodes reconciled.
func (s *Stats) Total() int {
	return len(s.keys[Reuse]) + len(s.keys[Clone]) + len(s.keys[Resolve])
}
