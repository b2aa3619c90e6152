package localsearch

import (
	"time"

	"github.com/katalvlaran/rssched/objective"
)

// Engine drives a seed solution toward a local optimum by repeatedly
// applying an Improver until it reports no further improvement, or a
// termination condition fires first.
type Engine[S any] struct {
	Neighborhood Neighborhood[S]
	Objective    objective.Objective[S]
	Improver     Improver[S]

	// MaxIterations caps the number of improve steps; zero means unlimited.
	MaxIterations int
	// Deadline, if non-zero, stops the engine once reached, returning the
	// best solution found so far rather than an error — timeouts degrade
	// gracefully.
	Deadline time.Time
	// StopSignal, if set, is checked between steps; when it returns true the
	// engine stops and returns the current best, same as a deadline.
	StopSignal func() bool
}

// Stats summarizes one Run: how many improving steps were taken and why the
// run stopped.
type Stats struct {
	Iterations int
	Reason     StopReason
}

// StopReason names why Engine.Run returned.
type StopReason uint8

const (
	// LocalOptimum means no neighbor improved on the current solution.
	LocalOptimum StopReason = iota
	// IterationCap means MaxIterations was reached.
	IterationCap
	// DeadlineExceeded means Deadline passed.
	DeadlineExceeded
	// Signalled means StopSignal returned true.
	Signalled
)

func (r StopReason) String() string {
	switch r {
	case LocalOptimum:
		return "LocalOptimum"
	case IterationCap:
		return "IterationCap"
	case DeadlineExceeded:
		return "DeadlineExceeded"
	case Signalled:
		return "Signalled"
	default:
		return "Unknown"
	}
}

// Run iterates improve steps starting from seed until termination. It never
// returns a partial or unevaluated solution — only the seed itself, or a
// later fully-evaluated improvement.
func (e *Engine[S]) Run(seed objective.EvaluatedSolution[S]) (objective.EvaluatedSolution[S], Stats, error) {
	current := seed
	stats := Stats{}

	for {
		if e.MaxIterations > 0 && stats.Iterations >= e.MaxIterations {
			stats.Reason = IterationCap
			return current, stats, nil
		}
		if !e.Deadline.IsZero() && !time.Now().Before(e.Deadline) {
			stats.Reason = DeadlineExceeded
			return current, stats, nil
		}
		if e.StopSignal != nil && e.StopSignal() {
			stats.Reason = Signalled
			return current, stats, nil
		}

		next, ok, err := e.Improver.Improve(current, e.Neighborhood, e.Objective)
		if err != nil {
			return current, stats, err
		}
		if !ok {
			stats.Reason = LocalOptimum
			return current, stats, nil
		}
		current = next
		stats.Iterations++
	}
}
