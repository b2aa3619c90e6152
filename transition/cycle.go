// Package transition implements the secondary local search over maintenance
// rotas: for each vehicle type, a cyclic ordering of its vehicles representing a
// shared maintenance rota, optimized by a 3-opt local search whose
// objective is the 2-level lexicographic (maintenanceViolation,
// maintenanceCounter). Deliberately independent of package schedule — the
// maintenance cost between two vehicles is supplied by the caller as a
// CostFunc closure (built from the schedule's own tours), the same
// generic-over-solution-type pattern the objective and localsearch packages
// use, so there is no import cycle between schedule and transition.
package transition

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/xtime"
)

// CostFunc returns the maintenance-relevant cost of vehicle a directly
// preceding vehicle b in a transition cycle (e.g. the dead-head/turnaround
// cost between a's tour end and b's tour start). Supplied by the schedule
// package, which alone knows vehicle tours and the network.
type CostFunc func(a, b ids.VehicleId) xtime.Duration

// TransitionCycle is a cyclic ordering of the vehicles of one type sharing a
// maintenance rota.
type TransitionCycle struct {
	VehicleType ids.VehicleTypeId
	order       []ids.VehicleId
	budget      int
}

// NewCycle constructs a TransitionCycle over the given vehicles in the
// order provided, with a per-period maintenance budget.
func NewCycle(t ids.VehicleTypeId, vehicles []ids.VehicleId, budget int) *TransitionCycle {
	order := make([]ids.VehicleId, len(vehicles))
	copy(order, vehicles)
	return &TransitionCycle{VehicleType: t, order: order, budget: budget}
}

// Order returns a defensive copy of the cycle's vehicle order.
func (c *TransitionCycle) Order() []ids.VehicleId {
	out := make([]ids.VehicleId, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of vehicles in the cycle.
func (c *TransitionCycle) Len() int { return len(c.order) }

// Budget returns the per-period maintenance budget.
func (c *TransitionCycle) Budget() int { return c.budget }

// withOrder returns a new TransitionCycle with the same type and budget but
// a different vehicle order — the copy-on-write primitive 3-opt moves use.
func (c *TransitionCycle) withOrder(order []ids.VehicleId) *TransitionCycle {
	return &TransitionCycle{VehicleType: c.VehicleType, order: order, budget: c.budget}
}

// Counter computes the maintenance counter: the total cost of every
// consecutive pair in the cyclic order, wrapping from the last vehicle back
// to the first.
func (c *TransitionCycle) Counter(cost CostFunc) int {
	n := len(c.order)
	if n == 0 {
		return 0
	}
	total := xtime.Duration(0)
	for i := 0; i < n; i++ {
		a := c.order[i]
		b := c.order[(i+1)%n]
		total = total.Add(cost(a, b))
	}
	return int(total)
}

// Violation is the amount by which Counter exceeds Budget, zero if within
// budget.
func (c *TransitionCycle) Violation(cost CostFunc) int {
	counter := c.Counter(cost)
	if counter > c.budget {
		return counter - c.budget
	}
	return 0
}
