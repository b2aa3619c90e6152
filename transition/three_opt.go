package transition

import (
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/transition/matrix"
)

// costCache precomputes pairwise CostFunc results into a dense matrix
// indexed by each vehicle's stable position in the cycle at the time the
// cache was built, so the O(n^3) enumeration over (i,j,k) in 3-opt doesn't
// re-invoke the caller's CostFunc (which may itself walk a tour) on every
// candidate. The matrix is built once per run, not per comparison.
type costCache struct {
	index map[ids.VehicleId]int
	costs *matrix.Dense
}

func buildCostCache(order []ids.VehicleId, cost CostFunc) *costCache {
	n := len(order)
	index := make(map[ids.VehicleId]int, n)
	for i, v := range order {
		index[v] = i
	}
	costs := matrix.NewDense(n, n)
	for i, a := range order {
		for j, b := range order {
			if i == j {
				continue
			}
			_ = costs.Set(i, j, float64(cost(a, b)))
		}
	}
	return &costCache{index: index, costs: costs}
}

func (c *costCache) at(a, b ids.VehicleId) float64 {
	v, err := c.costs.At(c.index[a], c.index[b])
	if err != nil {
		return 0
	}
	return v
}

func segFirstLast(order []ids.VehicleId, i, j, k int) (a, b, c, d []ids.VehicleId) {
	return order[:i], order[i:j], order[j:k], order[k:]
}

func reversed(s []ids.VehicleId) []ids.VehicleId {
	out := make([]ids.VehicleId, len(s))
	for idx, v := range s {
		out[len(s)-1-idx] = v
	}
	return out
}

func concatVehicles(parts ...[]ids.VehicleId) []ids.VehicleId {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]ids.VehicleId, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// reconnections produces the 8 reconnection variants of a cyclic order given
// three cut points 0 <= i < j < k < len(order): segment A
// (before i), B ([i,j)), C ([j,k)), D (from k). The 8 variants come from
// independently reversing B, independently reversing C, and optionally
// swapping B and C's positions — the identity variant (A B C D) is included
// so a 3-opt step can recognize "no improvement available at this cut".
func reconnections(order []ids.VehicleId, i, j, k int) [][]ids.VehicleId {
	a, b, c, d := segFirstLast(order, i, j, k)
	br := reversed(b)
	cr := reversed(c)
	return [][]ids.VehicleId{
		concatVehicles(a, b, c, d),
		concatVehicles(a, br, c, d),
		concatVehicles(a, b, cr, d),
		concatVehicles(a, br, cr, d),
		concatVehicles(a, c, b, d),
		concatVehicles(a, cr, b, d),
		concatVehicles(a, c, br, d),
		concatVehicles(a, cr, br, d),
	}
}

// ThreeOpt enumerates every 3-opt move (i,j,k, variant) over cycle and
// returns the candidate cycles as a plain slice — the inner search space is
// bounded by a small cubic enumeration over a handful of vehicles sharing a
// maintenance rota, so materializing it (unlike the outer schedule
// neighborhoods) doesn't risk exhausting memory.
func ThreeOpt(cycle *TransitionCycle) []*TransitionCycle {
	order := cycle.Order()
	n := len(order)
	var out []*TransitionCycle
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for variantIdx, variant := range reconnections(order, i, j, k) {
					if variantIdx == 0 {
						continue // identity: not a move
					}
					out = append(out, cycle.withOrder(variant))
				}
			}
		}
	}
	return out
}
