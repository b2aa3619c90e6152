// Package rssched is a rolling-stock scheduling engine: given a network of
// service trips, depots, maintenance slots and dead-head connections, a
// vehicle-type catalogue and a passenger demand, it assigns a tour of nodes
// to each vehicle so that every trip is covered, maintenance rotas stay
// within budget, and a hierarchical cost objective is minimized.
//
// The engine is a local-search metaheuristic over an immutable schedule
// data model:
//
//	ids/          — typed identifiers and the tagged NodeId
//	xtime/        — whole-second durations, date-times, saturating distances
//	network/      — the immutable trip/depot/maintenance digraph
//	schedule/     — the Schedule aggregate and its copy-on-write edit algebra
//	objective/    — indicators, linear combinations, lexicographic levels
//	neighborhood/ — lazy enumerations of candidate schedule edits
//	localsearch/  — improver policies and the iterate-until-optimum engine
//	transition/   — 3-opt over per-type maintenance rotation cycles
//	construct/    — seed-schedule construction
//	transport/    — the JSON wire contract and instance building
//	solver/       — end-to-end orchestration
//
// Two binaries wrap the solver: cmd/rssched (file in, file out) and
// cmd/rssched-server (HTTP, POST /solve).
//
// Schedules are persistent values: every edit returns a new Schedule sharing
// unchanged structure with the old, so independent neighbors can be
// evaluated concurrently without locks.
package rssched
