// Package solver wires the optimization core end to end: build the instance
// from a decoded input, construct a seed schedule, run the local-search
// engine over the combined neighborhoods, and assemble the output document.
// This is the only package that holds a logger; the core packages beneath it
// stay pure, with no process-wide mutable state anywhere.
package solver

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/rssched/construct"
	"github.com/katalvlaran/rssched/ids"
	"github.com/katalvlaran/rssched/localsearch"
	"github.com/katalvlaran/rssched/neighborhood"
	"github.com/katalvlaran/rssched/objective"
	"github.com/katalvlaran/rssched/schedule"
	"github.com/katalvlaran/rssched/transport"
	"github.com/katalvlaran/rssched/xtime"
)

// Default neighborhood bounds, used when the input's config block leaves
// them unset: 3-hour segments, 5-minute overhead.
const (
	DefaultSegmentLimit      = xtime.Duration(3 * 60 * 60)
	DefaultOverheadThreshold = xtime.Duration(5 * 60)
)

// Config carries the solver-level knobs a run derives from the input's
// config block plus operational caps the caller may impose.
type Config struct {
	SegmentLimit      xtime.Duration
	OverheadThreshold xtime.Duration
	MaintenanceBudget int

	// Costs scales the default objective's costs level; zero rates read as
	// raw dead-head distance.
	Costs schedule.CostRates
	// Objectives names additional selectable indicators appended as extra
	// levels after the default four.
	Objectives []string

	// MaxIterations caps improve steps; zero means run to local optimum.
	MaxIterations int
	// Timeout bounds wall-clock time; zero means unbounded.
	Timeout time.Duration
	// ChunkSize sets the parallel improver's chunk width; values below 1
	// select the sequential best-improvement policy instead.
	ChunkSize int
}

// ConfigFrom derives a Config from the input document's config block,
// applying defaults for anything left unset. A maintenance budget of zero
// or below reads as unlimited.
func ConfigFrom(c transport.ConfigInput) Config {
	cfg := Config{
		SegmentLimit:      xtime.Duration(c.Durations.SegmentLimit),
		OverheadThreshold: xtime.Duration(c.Durations.OverheadThreshold),
		MaintenanceBudget: c.MaintenanceBudget,
		Costs:             schedule.CostRates{PerKilometer: c.Costs.PerKilometer, PerHour: c.Costs.PerHour},
		Objectives:        c.Objectives,
		ChunkSize:         32,
	}
	if cfg.SegmentLimit <= 0 {
		cfg.SegmentLimit = DefaultSegmentLimit
	}
	if cfg.OverheadThreshold <= 0 {
		cfg.OverheadThreshold = DefaultOverheadThreshold
	}
	if cfg.MaintenanceBudget <= 0 {
		cfg.MaintenanceBudget = math.MaxInt
	}
	return cfg
}

// Result is one finished solve run.
type Result struct {
	RunID    string
	Schedule *schedule.Schedule
	Value    objective.ObjectiveValue
	Stats    localsearch.Stats
	Elapsed  time.Duration
	Output   transport.Output
}

// ConfigOverride adjusts the Config derived from the input before a run —
// callers use it to impose operational caps (iterations, timeout) or force
// the sequential improver.
type ConfigOverride func(*Config)

// Solve runs the full pipeline over one decoded input: build, seed, local
// search, output assembly. Cancelling ctx stops the search between improve
// steps and returns the best schedule found so far.
func Solve(ctx context.Context, logger *zap.Logger, in transport.Input) (*Result, error) {
	return SolveWithConfig(ctx, logger, in)
}

// SolveWithConfig is Solve with caller-supplied config overrides applied on
// top of the input document's own config block.
func SolveWithConfig(ctx context.Context, logger *zap.Logger, in transport.Input, overrides ...ConfigOverride) (*Result, error) {
	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID))
	started := time.Now()

	inst, err := transport.Build(in)
	if err != nil {
		return nil, errors.Wrap(err, "build instance")
	}
	cfg := ConfigFrom(in.Config)
	for _, override := range overrides {
		override(&cfg)
	}
	log.Info("instance built",
		zap.Int("service_trips", len(in.ServiceTrips)),
		zap.Int("maintenance_slots", len(in.MaintenanceSlots)),
		zap.Int("depots", len(in.Depots)),
		zap.Int("vehicle_types", len(in.VehicleTypes)),
	)

	seed, err := construct.OneVehiclePerTrip{}.Seed(inst.Net)
	if err != nil {
		return nil, errors.Wrap(err, "construct seed")
	}
	seed, err = schedule.RecomputeTransitionsFor(seed, seed.VehicleTypesInUse(), cfg.MaintenanceBudget)
	if err != nil {
		return nil, errors.Wrap(err, "settle seed transitions")
	}

	obj, err := buildObjective(inst, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build objective")
	}
	evaluated := objective.Evaluate(obj, seed)
	log.Info("seed constructed",
		zap.Int("vehicles", seed.VehicleCount()),
		zap.String("objective", evaluated.Value.String()),
	)

	// An instance with nothing to schedule needs no search pass; running one
	// would only produce an empty-neighborhood warning for a vacuously
	// optimal schedule.
	if seed.VehicleCount() == 0 && len(inst.Net.AllServiceNodes()) == 0 {
		return finish(log, inst, runID, evaluated, localsearch.Stats{}, started), nil
	}

	eng := &localsearch.Engine[*schedule.Schedule]{
		Neighborhood:  buildNeighborhood(inst, cfg),
		Objective:     obj,
		Improver:      buildImprover(log, cfg),
		MaxIterations: cfg.MaxIterations,
	}
	if cfg.Timeout > 0 {
		eng.Deadline = started.Add(cfg.Timeout)
	}
	if ctx.Done() != nil {
		eng.StopSignal = func() bool {
			select {
			case <-ctx.Done():
				return true
			default:
				return false
			}
		}
	}

	best, stats, err := eng.Run(evaluated)
	if err != nil {
		return nil, errors.Wrap(err, "local search")
	}
	return finish(log, inst, runID, best, stats, started), nil
}

// buildObjective assembles the run's objective: the default four levels
// (with the config's cost rates applied to the costs level) plus one extra
// level per selected additional indicator, in selection order.
func buildObjective(inst *transport.Instance, cfg Config) (objective.Objective[*schedule.Schedule], error) {
	obj := schedule.DefaultObjective(cfg.Costs)
	one := objective.IntCoefficient(1)
	for _, name := range cfg.Objectives {
		var ind objective.Indicator[*schedule.Schedule]
		switch name {
		case "deadheadDistance":
			ind = schedule.DeadheadDistanceIndicator()
		case "seatDistanceTraveled":
			ind = schedule.SeatDistanceTraveledIndicator(inst.Types.Seats)
		case "numberOfDummyTours":
			ind = schedule.NumberOfDummyToursIndicator()
		case "maintenanceCounter":
			ind = schedule.MaintenanceCounterIndicator()
		default:
			return objective.Objective[*schedule.Schedule]{}, errors.Errorf("unknown objective %q", name)
		}
		obj.Levels = append(obj.Levels, objective.Level[*schedule.Schedule]{
			Name:  ind.Name,
			Terms: []objective.Term[*schedule.Schedule]{{Coefficient: one, Indicator: ind}},
		})
	}
	return obj, nil
}

// buildNeighborhood composes the concrete schedule neighborhoods into the
// single Neighborhood the engine is parametrized over: limited segment exchange
// first (the workhorse merge move), then single-node add/remove over every
// service and maintenance node, then one hitch-hiking neighborhood per
// maintenance node.
func buildNeighborhood(inst *transport.Instance, cfg Config) localsearch.Neighborhood[*schedule.Schedule] {
	nhCfg := neighborhood.Config{
		SegmentLimit:      cfg.SegmentLimit,
		OverheadThreshold: cfg.OverheadThreshold,
		MaintenanceBudget: cfg.MaintenanceBudget,
	}

	pool := inst.Net.AllServiceNodes()
	var maintenance []ids.NodeId
	for _, n := range inst.Net.Nodes() {
		if n.ID().Kind == ids.Maintenance {
			maintenance = append(maintenance, n.ID())
		}
	}
	pool = append(pool, maintenance...)

	all := []localsearch.Neighborhood[*schedule.Schedule]{
		neighborhood.LimitedSegmentExchange{Config: nhCfg},
		neighborhood.SingleNodeAddRemove{Pool: pool, Config: nhCfg},
	}
	for _, m := range maintenance {
		all = append(all, neighborhood.AddTripForHitchHiking{MaintenanceNode: m, Config: nhCfg})
	}
	return neighborhood.Union{Neighborhoods: all}
}

func buildImprover(log *zap.Logger, cfg Config) localsearch.Improver[*schedule.Schedule] {
	warn := func() { log.Warn("neighborhood produced no candidates") }
	if cfg.ChunkSize < 1 {
		return localsearch.Minimizer[*schedule.Schedule]{OnEmptyNeighborhood: warn}
	}
	return localsearch.ParallelMinimizer[*schedule.Schedule]{ChunkSize: cfg.ChunkSize, OnEmptyNeighborhood: warn}
}

func finish(log *zap.Logger, inst *transport.Instance, runID string, best objective.EvaluatedSolution[*schedule.Schedule], stats localsearch.Stats, started time.Time) *Result {
	elapsed := time.Since(started)
	res := &Result{
		RunID:    runID,
		Schedule: best.Solution,
		Value:    best.Value,
		Stats:    stats,
		Elapsed:  elapsed,
		Output:   assembleOutput(inst, runID, best, stats, elapsed),
	}
	log.Info("solve finished",
		zap.Int("vehicles", best.Solution.VehicleCount()),
		zap.String("objective", best.Value.String()),
		zap.Int("iterations", stats.Iterations),
		zap.String("stop_reason", stats.Reason.String()),
		zap.Duration("elapsed", elapsed),
	)
	return res
}

// assembleOutput serializes the final schedule into the output document,
// translating internal NodeIds back into the input document's id space.
func assembleOutput(inst *transport.Instance, runID string, best objective.EvaluatedSolution[*schedule.Schedule], stats localsearch.Stats, elapsed time.Duration) transport.Output {
	s := best.Solution
	vehicles := make([]transport.VehicleOutput, 0, s.VehicleCount())
	for _, v := range s.VehicleIds() {
		veh, ok := s.Vehicle(v)
		if !ok {
			continue
		}
		nodes := veh.Tour.Nodes()
		row := transport.VehicleOutput{
			ID:    uint32(v),
			Type:  uint32(veh.Type),
			Nodes: make([]uint32, 0, len(nodes)),
		}
		for _, n := range nodes {
			row.Nodes = append(row.Nodes, inst.InputIDs[n])
		}
		if start, okStart := inst.Net.Node(veh.Tour.StartDepot()); okStart {
			row.StartDepot = uint32(start.Depot())
		}
		if end, okEnd := inst.Net.Node(veh.Tour.EndDepot()); okEnd {
			row.EndDepot = uint32(end.Depot())
		}
		vehicles = append(vehicles, row)
	}

	byLevel := make(map[string]int64, best.Value.Len())
	for i := 0; i < best.Value.Len(); i++ {
		byLevel[best.Value.LevelName(i)] = best.Value.At(i).IntValue()
	}

	return transport.Output{
		Vehicles:  vehicles,
		Objective: byLevel,
		Summary: transport.Summary{
			RunID:               runID,
			VehicleCount:        s.VehicleCount(),
			ServiceTripCount:    len(inst.Net.AllServiceNodes()),
			Iterations:          stats.Iterations,
			StopReason:          stats.Reason.String(),
			ElapsedMilliseconds: elapsed.Milliseconds(),
		},
	}
}
