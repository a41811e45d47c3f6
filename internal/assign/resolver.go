// Package assign resolves which worker executes a plan node under
// skill and availability constraints, in automatic and manual modes.
package assign

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mbeckers/fabplan/internal/domain"
)

// ErrNoStation rejects any resolution attempt for a node without an
// assigned station; skill requirements cannot be computed without one.
var ErrNoStation = errors.New("node has no assigned station")

// SkillError reports a manual assignment of a worker who lacks part of
// the node's effective skill requirement.
type SkillError struct {
	WorkerID string
	Missing  []string
}

func (e *SkillError) Error() string {
	return fmt.Sprintf("worker %s is missing required skills: %s", e.WorkerID, strings.Join(e.Missing, ", "))
}

// ScheduleLookup reads worker commitments spanning all plans. The read
// is a point-in-time snapshot taken without a lock, so two concurrent
// sessions may both see a worker as free for overlapping windows; the
// scheduler that persists assignments must re-validate on commit
// (optimistic concurrency), or double booking goes undetected.
type ScheduleLookup interface {
	ListOverlapping(ctx context.Context, workerID string, start, end time.Time) ([]domain.ScheduleEntry, error)
}

// Window is a half-open execution window [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Request carries one node's assignment inputs: the node, its primary
// station, the candidate worker pool, and an optional explicit window.
// Without an explicit window the node runs in [now, now+duration).
type Request struct {
	Node    *domain.Node
	Station *domain.Station
	Workers []domain.Worker
	Window  *Window
}

// Result is the outcome of one resolution. An empty Worker with
// RequiresAttention set means no eligible worker was free; the node
// stays savable.
type Result struct {
	Worker            string
	Mode              domain.AssignmentMode
	Warnings          []string
	RequiresAttention bool
}

// Resolver computes worker assignments against a schedule snapshot.
type Resolver struct {
	schedules ScheduleLookup
	now       func() time.Time
}

// NewResolver creates a Resolver reading availability from the given
// lookup.
func NewResolver(schedules ScheduleLookup) *Resolver {
	return &Resolver{schedules: schedules, now: time.Now}
}

// WithClock overrides the resolver's clock. Test hook.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// RequiredSkills is the node's effective requirement: its own skills
// union the primary station's effective skills.
func RequiredSkills(node *domain.Node, station *domain.Station) []string {
	if station == nil {
		return domain.UnionSkills(node.Skills)
	}
	return domain.UnionSkills(node.Skills, station.EffectiveSkills)
}

// EligibleWorkers returns the workers whose skill set covers every
// required skill, ordered by worker id.
func EligibleWorkers(workers []domain.Worker, required []string) []domain.Worker {
	var out []domain.Worker
	for _, w := range workers {
		if domain.HasAllSkills(w.Skills, required) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Auto selects a worker automatically: among workers covering the
// effective skill requirement, the first (by id) free during the
// execution window wins. When no eligible worker is free the node is
// left unassigned with a warning and RequiresAttention set; that is a
// recoverable outcome, not an error.
func (r *Resolver) Auto(ctx context.Context, req Request) (Result, error) {
	if req.Station == nil || len(req.Node.AssignedStations) == 0 {
		return Result{}, ErrNoStation
	}
	required := RequiredSkills(req.Node, req.Station)
	eligible := EligibleWorkers(req.Workers, required)
	if len(eligible) == 0 {
		return Result{
			Mode:              domain.AssignAuto,
			Warnings:          []string{fmt.Sprintf("no worker holds the required skills: %s", strings.Join(required, ", "))},
			RequiresAttention: true,
		}, nil
	}

	win := r.window(req)
	for _, w := range eligible {
		busy, err := r.schedules.ListOverlapping(ctx, w.ID, win.Start, win.End)
		if err != nil {
			return Result{}, fmt.Errorf("checking schedule of worker %s: %w", w.ID, err)
		}
		if len(busy) == 0 {
			return Result{Worker: w.ID, Mode: domain.AssignAuto}, nil
		}
	}
	return Result{
		Mode:              domain.AssignAuto,
		Warnings:          []string{"all eligible workers are booked in the execution window"},
		RequiresAttention: true,
	}, nil
}

// Manual records an explicitly chosen worker. A missing skill is a
// hard error; an overlapping commitment only appends a warning, the
// assignment is still recorded.
func (r *Resolver) Manual(ctx context.Context, req Request, workerID string) (Result, error) {
	if req.Station == nil || len(req.Node.AssignedStations) == 0 {
		return Result{}, ErrNoStation
	}
	var chosen *domain.Worker
	for i := range req.Workers {
		if req.Workers[i].ID == workerID {
			chosen = &req.Workers[i]
			break
		}
	}
	if chosen == nil {
		return Result{}, fmt.Errorf("worker %s not found in candidate pool", workerID)
	}

	required := RequiredSkills(req.Node, req.Station)
	if missing := domain.MissingSkills(chosen.Skills, required); len(missing) > 0 {
		return Result{}, &SkillError{WorkerID: workerID, Missing: missing}
	}

	res := Result{Worker: workerID, Mode: domain.AssignManual}
	win := r.window(req)
	busy, err := r.schedules.ListOverlapping(ctx, workerID, win.Start, win.End)
	if err != nil {
		return Result{}, fmt.Errorf("checking schedule of worker %s: %w", workerID, err)
	}
	if len(busy) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("worker %s has %d overlapping commitment(s) in the execution window", workerID, len(busy)))
	}
	return res, nil
}

func (r *Resolver) window(req Request) Window {
	if req.Window != nil {
		return *req.Window
	}
	start := r.now().UTC()
	return Window{Start: start, End: start.Add(time.Duration(req.Node.DurationMin) * time.Minute)}
}
