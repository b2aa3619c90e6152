// Package schedule implements the central Schedule aggregate: an immutable
// mapping from vehicle to tour, train formations, depot assignments, and
// transition cycles, edited only via copy-on-write operations that return a
// new Schedule sharing unchanged structure with the old.
package schedule

import (
	"fmt"

	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/network"
)

// Tour is a non-empty ordered sequence of NodeIds beginning with a
// StartDepot and ending with an EndDepot. Every adjacent pair must satisfy
// the network's CanFollow predicate; no service or maintenance node may
// appear twice.
type Tour struct {
	nodes []ids.NodeId
}

// NewTour wraps a node sequence as a Tour without validating it — use
// ValidateTour to check the result before trusting it.
func NewTour(nodes []ids.NodeId) Tour {
	cp := make([]ids.NodeId, len(nodes))
	copy(cp, nodes)
	return Tour{nodes: cp}
}

// Nodes returns a defensive copy of the tour's node sequence.
func (t Tour) Nodes() []ids.NodeId {
	out := make([]ids.NodeId, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len returns the number of nodes in the tour.
func (t Tour) Len() int { return len(t.nodes) }

// At returns the node at position i.
func (t Tour) At(i int) ids.NodeId { return t.nodes[i] }

// StartDepot returns the tour's first node.
func (t Tour) StartDepot() ids.NodeId { return t.nodes[0] }

// EndDepot returns the tour's last node.
func (t Tour) EndDepot() ids.NodeId { return t.nodes[len(t.nodes)-1] }

// IndexOf returns the position of n in the tour, or -1 if absent.
func (t Tour) IndexOf(n ids.NodeId) int {
	for i, node := range t.nodes {
		if node == n {
			return i
		}
	}
	return -1
}

// ValidateTour checks the Tour predicate: non-empty, starts with a
// StartDepot, ends with an EndDepot, every adjacent pair satisfies
// net.CanFollow, and no service/maintenance node repeats.
func ValidateTour(t Tour, net *network.Network) error {
	if t.Len() == 0 {
		return fmt.Errorf("schedule: tour is empty")
	}
	if t.StartDepot().Kind != ids.StartDepot {
		return fmt.Errorf("schedule: tour does not begin with a start depot")
	}
	if t.EndDepot().Kind != ids.EndDepot {
		return fmt.Errorf("schedule: tour does not end with an end depot")
	}
	seen := make(map[ids.NodeId]bool, t.Len())
	for i, n := range t.nodes {
		if n.Kind == ids.Service || n.Kind == ids.Maintenance {
			if seen[n] {
				return fmt.Errorf("schedule: node %s appears twice in tour", n)
			}
			seen[n] = true
		}
		if i > 0 {
			prev := t.nodes[i-1]
			if !net.CanFollow(prev, n) {
				return fmt.Errorf("schedule: %s cannot be followed by %s", prev, n)
			}
		}
	}
	return nil
}

// ContainsNonDepot reports whether the tour has any service or maintenance
// node.
func (t Tour) ContainsNonDepot() bool {
	for _, n := range t.nodes {
		if !n.IsDepot() {
			return true
		}
	}
	return false
}

// Segment returns the inclusive sub-sequence [start, end] of the tour's
// positions, along with whether the range was valid.
func (t Tour) Segment(start, end int) ([]ids.NodeId, bool) {
	if start < 0 || end >= t.Len() || start > end {
		return nil, false
	}
	out := make([]ids.NodeId, end-start+1)
	copy(out, t.nodes[start:end+1])
	return out, true
}

// WithRemoved returns a new Tour with the inclusive segment [start,end]
// removed.
func (t Tour) WithRemoved(start, end int) Tour {
	out := make([]ids.NodeId, 0, t.Len()-(end-start+1))
	out = append(out, t.nodes[:start]...)
	out = append(out, t.nodes[end+1:]...)
	return Tour{nodes: out}
}

// WithInserted returns a new Tour with path inserted starting at position
// pos (before the existing node currently at pos).
func (t Tour) WithInserted(pos int, path []ids.NodeId) Tour {
	out := make([]ids.NodeId, 0, t.Len()+len(path))
	out = append(out, t.nodes[:pos]...)
	out = append(out, path...)
	out = append(out, t.nodes[pos:]...)
	return Tour{nodes: out}
}
