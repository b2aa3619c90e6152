// Package neighborhood implements the concrete schedule-editing
// neighborhoods: limited segment exchange, single-node add/remove, and
// add-trip-for-hitch-hiking. Each wraps localsearch.Iterator so candidates
// are produced lazily, one at a time, rather than materialized in bulk.
package neighborhood

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/schedule"
	"github.com/katalvlaran/rssched/xtime"
)

// Config bounds the branching factor of every neighborhood in this package.
type Config struct {
	// SegmentLimit caps the duration of a segment considered for exchange
	// (typically a few hours).
	SegmentLimit xtime.Duration
	// OverheadThreshold prevents splitting tours at gaps shorter than this
	// (typically a few minutes), reducing branching factor.
	OverheadThreshold xtime.Duration
	// MaintenanceBudget is the per-period budget passed to
	// RecomputeTransitionsFor when an edit touches a maintenance node.
	MaintenanceBudget int
}

// recomputeIfNeeded triggers RecomputeTransitionsFor for vtype whenever the
// tour segment just edited touched a maintenance node — always, not
// conditionally.
func recomputeIfNeeded(s *schedule.Schedule, nodes []ids.NodeId, vtype ids.VehicleTypeId, budget int) *schedule.Schedule {
	for _, n := range nodes {
		if n.Kind == ids.Maintenance {
			if next, err := schedule.RecomputeTransitionsFor(s, []ids.VehicleTypeId{vtype}, budget); err == nil {
				return next
			}
			return s
		}
	}
	return s
}
