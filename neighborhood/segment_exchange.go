package neighborhood

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/schedule"
	"github.com/katalvlaran/rssched/xtime"
)

// LimitedSegmentExchange enumerates pairs (v, seg) x v' where seg is a
// contiguous segment of v's tour no longer than Config.SegmentLimit, and v'
// ranges over every other vehicle. Enumeration order is segment start
// position ascending, then length ascending, then candidate vehicle order.
type LimitedSegmentExchange struct {
	Config Config
}

func (n LimitedSegmentExchange) NeighborsOf(s *schedule.Schedule) localsearch.Iterator[*schedule.Schedule] {
	vehicles := s.VehicleIds()

	vi := 0
	segStart := 1
	segEnd := 1
	targetIdx := 0

	next := func() (*schedule.Schedule, bool) {
		for vi < len(vehicles) {
			v := vehicles[vi]
			veh, ok := s.Vehicle(v)
			if !ok || veh.Tour.Len() <= 2 {
				vi++
				segStart, segEnd, targetIdx = 1, 1, 0
				continue
			}
			last := veh.Tour.Len() - 2
			if segStart > last {
				vi++
				segStart, segEnd, targetIdx = 1, 1, 0
				continue
			}
			if segEnd > last || duration(s, veh.Tour, segStart, segEnd) > n.Config.SegmentLimit {
				segStart++
				segEnd = segStart
				targetIdx = 0
				continue
			}

			if !splitAllowed(s, veh.Tour, segStart, segEnd, n.Config.OverheadThreshold) {
				targetIdx = 0
				segEnd++
				continue
			}

			for targetIdx < len(vehicles) {
				vPrime := vehicles[targetIdx]
				targetIdx++
				if vPrime == v {
					continue
				}
				segment, ok := veh.Tour.Segment(segStart, segEnd)
				if !ok {
					continue
				}
				removed, err := schedule.RemoveSegment(s, v, segStart, segEnd)
				if err != nil {
					continue
				}
				candidate, conflict, err := schedule.AddPathToVehicleTour(removed, vPrime, segment)
				if err != nil || conflict != nil {
					continue
				}
				return recomputeIfNeeded(candidate, segment, veh.Type, n.Config.MaintenanceBudget), true
			}
			targetIdx = 0
			segEnd++
		}
		return nil, false
	}
	return localsearch.NewFuncIterator(next)
}

// splitAllowed enforces the overhead threshold: a segment may only
// be cut out where the idle gap at each of its boundaries is at least
// threshold long. Boundaries against a depot are always splittable — a tour
// end carries no overhead to protect.
func splitAllowed(s *schedule.Schedule, t schedule.Tour, start, end int, threshold xtime.Duration) bool {
	if threshold <= 0 {
		return true
	}
	return gapAtLeast(s, t.At(start-1), t.At(start), threshold) &&
		gapAtLeast(s, t.At(end), t.At(end+1), threshold)
}

// gapAtLeast reports whether the idle time between a's end-of-service (plus
// travel) and b's start is at least threshold.
func gapAtLeast(s *schedule.Schedule, a, b ids.NodeId, threshold xtime.Duration) bool {
	if a.IsDepot() || b.IsDepot() {
		return true
	}
	net := s.Network()
	nodeA, okA := net.Node(a)
	nodeB, okB := net.Node(b)
	if !okA || !okB {
		return false
	}
	arrival := nodeA.End().Plus(net.Duration(a, b))
	return nodeB.Start().Sub(arrival) >= threshold
}

// duration is the span of the segment [start,end] used to enforce
// Config.SegmentLimit: end of the last node minus start of the first node.
func duration(s *schedule.Schedule, t schedule.Tour, start, end int) xtime.Duration {
	if start > end {
		return 0
	}
	net := s.Network()
	firstNode, okFirst := net.Node(t.At(start))
	lastNode, okLast := net.Node(t.At(end))
	if !okFirst || !okLast {
		return 0
	}
	return lastNode.End().Sub(firstNode.Start())
}
