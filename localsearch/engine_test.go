package localsearch_test

import (
	"testing"

	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/objective"
	"github.com/stretchr/testify/require"
)

// countdown is a tiny test solution: an int that a neighborhood decrements
// toward zero, letting us exercise the engine without any scheduling types.
type countdown int

func countdownObjective() objective.Objective[countdown] {
	level := objective.Level[countdown]{
		Name: "value",
		Terms: []objective.Term[countdown]{
			{Coefficient: objective.IntCoefficient(1), Indicator: objective.Indicator[countdown]{
				Name: "value", Eval: func(c countdown) objective.BaseValue { return objective.Int(int64(c)) },
			}},
		},
	}
	return objective.New(level)
}

type decrementNeighborhood struct{}

func (decrementNeighborhood) NeighborsOf(s countdown) localsearch.Iterator[countdown] {
	if s <= 0 {
		return localsearch.NewSliceIterator[countdown](nil)
	}
	return localsearch.NewSliceIterator([]countdown{s - 1})
}

func TestEngineConvergesToLocalOptimum(t *testing.T) {
	obj := countdownObjective()
	eng := &localsearch.Engine[countdown]{
		Neighborhood: decrementNeighborhood{},
		Objective:    obj,
		Improver:     localsearch.Minimizer[countdown]{},
	}
	seed := objective.Evaluate(obj, countdown(5))
	result, stats, err := eng.Run(seed)
	require.NoError(t, err)
	require.Equal(t, countdown(0), result.Solution)
	require.Equal(t, localsearch.LocalOptimum, stats.Reason)
	require.Equal(t, 5, stats.Iterations)
}

func TestEngineRespectsIterationCap(t *testing.T) {
	obj := countdownObjective()
	eng := &localsearch.Engine[countdown]{
		Neighborhood:  decrementNeighborhood{},
		Objective:     obj,
		Improver:      localsearch.Minimizer[countdown]{},
		MaxIterations: 2,
	}
	seed := objective.Evaluate(obj, countdown(5))
	result, stats, err := eng.Run(seed)
	require.NoError(t, err)
	require.Equal(t, countdown(3), result.Solution)
	require.Equal(t, localsearch.IterationCap, stats.Reason)
}

func TestMinimizerWarnsOnEmptyNeighborhood(t *testing.T) {
	obj := countdownObjective()
	warned := false
	m := localsearch.Minimizer[countdown]{OnEmptyNeighborhood: func() { warned = true }}
	_, ok, err := m.Improve(objective.Evaluate(obj, countdown(0)), decrementNeighborhood{}, obj)
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, warned)
}

func TestParallelMinimizerMatchesSequential(t *testing.T) {
	obj := countdownObjective()
	seq := localsearch.Minimizer[countdown]{}
	par := localsearch.ParallelMinimizer[countdown]{ChunkSize: 2}

	current := objective.Evaluate(obj, countdown(5))
	seqNext, seqOk, err := seq.Improve(current, decrementNeighborhood{}, obj)
	require.NoError(t, err)
	parNext, parOk, err := par.Improve(current, decrementNeighborhood{}, obj)
	require.NoError(t, err)

	require.Equal(t, seqOk, parOk)
	require.Equal(t, seqNext.Solution, parNext.Solution)
}
