package neighborhood

import (
	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/schedule"
)

// Union concatenates several neighborhoods into one, enumerating each in
// turn in the order given. This is how the solver orchestration layer
// combines the concrete schedule neighborhoods into the single Neighborhood
// the local-search engine is parametrized over.
type Union struct {
	Neighborhoods []localsearch.Neighborhood[*schedule.Schedule]
}

func (u Union) NeighborsOf(s *schedule.Schedule) localsearch.Iterator[*schedule.Schedule] {
	idx := 0
	var current localsearch.Iterator[*schedule.Schedule]

	var next func() (*schedule.Schedule, bool)
	next = func() (*schedule.Schedule, bool) {
		for {
			if current == nil {
				if idx >= len(u.Neighborhoods) {
					return nil, false
				}
				current = u.Neighborhoods[idx].NeighborsOf(s)
				idx++
			}
			if cand, ok := current.Next(); ok {
				return cand, true
			}
			current = nil
		}
	}
	return localsearch.NewFuncIterator(next)
}
