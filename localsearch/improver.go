package localsearch

import (
	"context"

	"github.com/katalvlaran/rssched/objective"
	"golang.org/x/sync/errgroup"
)

// Improver picks the next solution (if any) a local-search step should move
// to, given the current evaluated solution and a neighborhood to draw
// candidates from.
type Improver[S any] interface {
	// Improve returns the chosen next solution and true, or the zero value
	// and false if no improving neighbor exists (an empty neighborhood or
	// none strictly better).
	Improve(current objective.EvaluatedSolution[S], n Neighborhood[S], o objective.Objective[S]) (objective.EvaluatedSolution[S], bool, error)
}

// Minimizer is the best-improvement policy: evaluate every neighbor, pick
// the lexicographically smallest, accept only if it strictly improves on
// current; reject a non-improving minimum, warn on an empty neighborhood.
type Minimizer[S any] struct {
	// OnEmptyNeighborhood, if set, is called when a neighborhood yields no
	// candidates at all — an operator-visible warning, not an error.
	OnEmptyNeighborhood func()
}

func (m Minimizer[S]) Improve(current objective.EvaluatedSolution[S], n Neighborhood[S], o objective.Objective[S]) (objective.EvaluatedSolution[S], bool, error) {
	it := n.NeighborsOf(current.Solution)
	var best objective.EvaluatedSolution[S]
	haveBest := false
	count := 0
	for {
		cand, ok := it.Next()
		if !ok {
			break
		}
		count++
		evaluated := objective.Evaluate(o, cand)
		if !haveBest {
			best = evaluated
			haveBest = true
			continue
		}
		less, err := evaluated.Less(best)
		if err != nil {
			return objective.EvaluatedSolution[S]{}, false, err
		}
		if less {
			best = evaluated
		}
	}
	if count == 0 {
		if m.OnEmptyNeighborhood != nil {
			m.OnEmptyNeighborhood()
		}
		return objective.EvaluatedSolution[S]{}, false, nil
	}
	less, err := best.Less(current)
	if err != nil {
		return objective.EvaluatedSolution[S]{}, false, err
	}
	if !less {
		return objective.EvaluatedSolution[S]{}, false, nil
	}
	return best, true, nil
}

// FirstImprovement accepts the first neighbor, in enumeration order, that
// strictly improves on current.
type FirstImprovement[S any] struct{}

func (FirstImprovement[S]) Improve(current objective.EvaluatedSolution[S], n Neighborhood[S], o objective.Objective[S]) (objective.EvaluatedSolution[S], bool, error) {
	it := n.NeighborsOf(current.Solution)
	for {
		cand, ok := it.Next()
		if !ok {
			return objective.EvaluatedSolution[S]{}, false, nil
		}
		evaluated := objective.Evaluate(o, cand)
		less, err := evaluated.Less(current)
		if err != nil {
			return objective.EvaluatedSolution[S]{}, false, err
		}
		if less {
			return evaluated, true, nil
		}
	}
}

// TakeAny accepts the first neighbor satisfying a caller-supplied predicate,
// enabling diversification moves that aren't strict lexicographic
// improvements (e.g. "strictly better on level 0").
type TakeAny[S any] struct {
	Accept func(current, candidate objective.EvaluatedSolution[S]) bool
}

func (t TakeAny[S]) Improve(current objective.EvaluatedSolution[S], n Neighborhood[S], o objective.Objective[S]) (objective.EvaluatedSolution[S], bool, error) {
	it := n.NeighborsOf(current.Solution)
	for {
		cand, ok := it.Next()
		if !ok {
			return objective.EvaluatedSolution[S]{}, false, nil
		}
		evaluated := objective.Evaluate(o, cand)
		if t.Accept(current, evaluated) {
			return evaluated, true, nil
		}
	}
}

// ParallelMinimizer is the parallel best-improvement policy: the neighbor
// sequence is partitioned into fixed-size chunks, each chunk evaluated by
// its own goroutine via golang.org/x/sync/errgroup, then reduced by
// lexicographic min. Chunks preserve the original enumeration order so
// ties resolve to the earliest candidate, giving result equivalence with
// Minimizer on a deterministic neighborhood.
type ParallelMinimizer[S any] struct {
	ChunkSize           int
	OnEmptyNeighborhood func()
}

type chunkResult[S any] struct {
	order     int
	evaluated objective.EvaluatedSolution[S]
	ok        bool
}

func (p ParallelMinimizer[S]) Improve(current objective.EvaluatedSolution[S], n Neighborhood[S], o objective.Objective[S]) (objective.EvaluatedSolution[S], bool, error) {
	chunkSize := p.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 32
	}

	it := n.NeighborsOf(current.Solution)
	var chunks [][]S
	var cur []S
	for {
		cand, ok := it.Next()
		if !ok {
			break
		}
		cur = append(cur, cand)
		if len(cur) == chunkSize {
			chunks = append(chunks, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total == 0 {
		if p.OnEmptyNeighborhood != nil {
			p.OnEmptyNeighborhood()
		}
		return objective.EvaluatedSolution[S]{}, false, nil
	}

	results := make([]chunkResult[S], len(chunks))
	g, _ := errgroup.WithContext(context.Background())
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		g.Go(func() error {
			var best objective.EvaluatedSolution[S]
			have := false
			for _, cand := range chunk {
				evaluated := objective.Evaluate(o, cand)
				if !have {
					best = evaluated
					have = true
					continue
				}
				less, err := evaluated.Less(best)
				if err != nil {
					return err
				}
				if less {
					best = evaluated
				}
			}
			results[idx] = chunkResult[S]{order: idx, evaluated: best, ok: have}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return objective.EvaluatedSolution[S]{}, false, err
	}

	var best objective.EvaluatedSolution[S]
	haveBest := false
	for _, r := range results {
		if !r.ok {
			continue
		}
		if !haveBest {
			best = r.evaluated
			haveBest = true
			continue
		}
		less, err := r.evaluated.Less(best)
		if err != nil {
			return objective.EvaluatedSolution[S]{}, false, err
		}
		if less {
			best = r.evaluated
		}
	}
	if !haveBest {
		return objective.EvaluatedSolution[S]{}, false, nil
	}
	less, err := best.Less(current)
	if err != nil {
		return objective.EvaluatedSolution[S]{}, false, err
	}
	if !less {
		return objective.EvaluatedSolution[S]{}, false, nil
	}
	return best, true, nil
}
