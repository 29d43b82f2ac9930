package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// Orchestrator runs the scheduling pipeline for one job at a time:
// load → assign materials → build graph → calculate dates → select work
// centers → calculate priorities → persist. It holds no per-run state;
// each Run threads a fresh accumulator through the stages.
type Orchestrator struct {
	store  Store
	locks  WorkCenterLocker // nil disables work-center locking
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store, locks WorkCenterLocker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{store: store, locks: locks, logger: logger, now: time.Now}
}

// run accumulates the working set of one scheduling pass.
type run struct {
	o     *Orchestrator
	log   *slog.Logger
	opts  domain.SchedulingOptions
	nowAt time.Time

	job       *domain.Job
	ops       []*domain.Operation
	materials []*domain.Material
	tree      *AssemblyTree
	graph     *Graph
	dates     map[uuid.UUID]DateResult
	selected  map[uuid.UUID]*uuid.UUID
	affected  []uuid.UUID
	jobSlots  map[uuid.UUID]int
	resident  []domain.PrioritySlot

	scheduled []domain.ScheduledOperation
	conflicts int
}

// Run executes one scheduling pass. A missing job is the only fatal
// condition besides I/O errors; every data-quality problem degrades into
// per-operation conflicts per the documented error taxonomy. Nothing is
// persisted when an error is returned.
func (o *Orchestrator) Run(ctx context.Context, opts domain.SchedulingOptions) (domain.SchedulingResult, error) {
	r := &run{
		o:     o,
		opts:  opts,
		nowAt: o.now(),
		log: o.logger.With(
			"job_id", opts.JobID,
			"mode", opts.Mode,
			"direction", opts.Direction),
	}

	if err := r.loadJob(ctx); err != nil {
		return domain.SchedulingResult{}, err
	}
	if len(r.ops) == 0 {
		r.log.Info("no schedulable operations, nothing to do")
		return domain.SchedulingResult{Success: true}, nil
	}
	if err := r.assignMaterials(ctx); err != nil {
		return domain.SchedulingResult{}, err
	}
	if err := r.buildDependencies(ctx); err != nil {
		return domain.SchedulingResult{}, err
	}
	r.calculateDates()
	if err := r.selectWorkCenters(ctx); err != nil {
		return domain.SchedulingResult{}, err
	}

	// The priority merge reads other jobs' queues; hold the per-center
	// advisory locks across the merge and the persist so two concurrent
	// runs cannot both rank against the same stale snapshot.
	release := r.lockWorkCenters(ctx)
	defer release()

	if err := r.calculatePriorities(ctx); err != nil {
		return domain.SchedulingResult{}, err
	}
	if err := r.persist(ctx); err != nil {
		return domain.SchedulingResult{}, err
	}

	result := domain.SchedulingResult{
		Success:             true,
		OperationsScheduled: len(r.scheduled),
		ConflictsDetected:   r.conflicts,
		WorkCentersAffected: r.affected,
	}
	if r.tree != nil {
		result.AssemblyDepth = r.tree.Depth
	}
	r.log.Info("scheduling complete",
		"operations", result.OperationsScheduled,
		"conflicts", result.ConflictsDetected,
		"work_centers", len(result.WorkCentersAffected),
		"assembly_depth", result.AssemblyDepth)
	return result, nil
}

func (r *run) loadJob(ctx context.Context) error {
	job, err := r.o.store.JobByID(ctx, r.opts.JobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	r.job = job

	loaded, err := r.o.store.ActiveOperations(ctx, r.opts.JobID)
	if err != nil {
		return fmt.Errorf("load operations: %w", err)
	}
	// The store query excludes finished work already; re-check here so a
	// permissive Store implementation cannot feed done or canceled
	// operations into the pass.
	for _, op := range loaded {
		if op.Status.Schedulable() {
			r.ops = append(r.ops, op)
		}
	}

	methods, err := r.o.store.MethodsForJob(ctx, r.opts.JobID)
	if err != nil {
		return fmt.Errorf("load methods: %w", err)
	}
	r.materials, err = r.o.store.MaterialsForJob(ctx, r.opts.JobID)
	if err != nil {
		return fmt.Errorf("load materials: %w", err)
	}

	r.tree = BuildAssemblyTree(methods, r.materials, r.ops)
	if r.tree == nil {
		r.log.Warn("job has no root production method, assembly-derived dependencies skipped")
	}
	return nil
}

// assignMaterials binds unlinked made materials to the first operation
// of their consuming method. Initial mode only: on reschedule the links
// are already persisted.
func (r *run) assignMaterials(ctx context.Context) error {
	if r.opts.Mode != domain.ModeInitial {
		return nil
	}
	for _, a := range DefaultHandOffs(r.tree, r.materials) {
		if err := r.o.store.AssignMaterialOperation(ctx, a.MaterialID, a.OperationID); err != nil {
			return fmt.Errorf("assign material %s: %w", a.MaterialID, err)
		}
		r.log.Info("assigned material hand-off",
			"material_id", a.MaterialID,
			"operation_id", a.OperationID)
	}
	return nil
}

// buildDependencies derives and persists the edge set on initial runs,
// or reloads the persisted set on reschedule.
func (r *run) buildDependencies(ctx context.Context) error {
	if r.opts.Mode == domain.ModeReschedule {
		edges, err := r.o.store.Dependencies(ctx, r.opts.JobID)
		if err != nil {
			return fmt.Errorf("load dependencies: %w", err)
		}
		r.graph = GraphFromEdges(edges)
		return nil
	}

	r.graph = BuildGraph(r.tree, r.ops, r.materials, r.log)
	edges := r.graph.EdgeList(r.opts.JobID)
	if err := r.o.store.ReplaceDependencies(ctx, r.opts.JobID, edges); err != nil {
		return fmt.Errorf("replace dependencies: %w", err)
	}

	var ready []uuid.UUID
	for _, op := range r.ops {
		if op.Status == domain.OpPending && !r.graph.HasPrerequisites(op.ID) {
			ready = append(ready, op.ID)
		}
	}
	if len(ready) > 0 {
		if err := r.o.store.MarkOperationsReady(ctx, ready); err != nil {
			return fmt.Errorf("mark operations ready: %w", err)
		}
	}
	r.log.Info("dependency graph built", "edges", len(edges), "ready", len(ready))
	return nil
}

func (r *run) calculateDates() {
	anchor := r.job.DueDate
	if r.opts.Direction == domain.Forward {
		anchor = r.nowAt
	}
	r.dates = CalculateDates(r.ops, r.graph, anchor, r.opts.Direction, r.nowAt)
}

func (r *run) selectWorkCenters(ctx context.Context) error {
	var centers []*domain.WorkCenter
	if r.job.LocationID == nil {
		r.log.Warn("job has no location, work-center selection skipped")
	} else {
		var err error
		centers, err = r.o.store.WorkCentersAt(ctx, *r.job.LocationID)
		if err != nil {
			return fmt.Errorf("load work centers: %w", err)
		}
	}
	r.selected = SelectWorkCenters(r.ops, centers)

	seen := make(map[uuid.UUID]struct{})
	for _, wcID := range r.selected {
		if wcID == nil {
			continue
		}
		if _, ok := seen[*wcID]; ok {
			continue
		}
		seen[*wcID] = struct{}{}
		r.affected = append(r.affected, *wcID)
	}
	sortUUIDs(r.affected)
	return nil
}

// lockWorkCenters acquires the advisory lock for every affected work
// center in sorted order. Acquisition failure is tolerated: the run
// proceeds with the point-in-time snapshot semantics and logs the
// consistency window.
func (r *run) lockWorkCenters(ctx context.Context) (release func()) {
	if r.o.locks == nil {
		return func() {}
	}
	var releases []func()
	for _, wcID := range r.affected {
		rel, err := r.o.locks.Acquire(ctx, wcID)
		if err != nil {
			r.log.Warn("work-center lock not acquired, proceeding unlocked",
				"work_center_id", wcID, "err", err)
			continue
		}
		releases = append(releases, rel)
	}
	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
}

// calculatePriorities merges this job's operations with the resident
// queues of every affected work center and ranks the union, so the
// persisted priorities stay globally consistent across jobs.
func (r *run) calculatePriorities(ctx context.Context) error {
	var entries []domain.QueueEntry
	if len(r.affected) > 0 {
		snapshot, err := r.o.store.OperationsAtWorkCenters(ctx, r.affected, r.opts.JobID)
		if err != nil {
			return fmt.Errorf("load work-center queues: %w", err)
		}
		entries = snapshot
	}
	existing := make(map[uuid.UUID]*int, len(entries))
	for _, e := range entries {
		existing[e.OperationID] = e.Priority
	}

	jobOps := make(map[uuid.UUID]struct{}, len(r.ops))
	for _, op := range r.ops {
		jobOps[op.ID] = struct{}{}
		wcID := r.selected[op.ID]
		if wcID == nil {
			continue
		}
		due := r.job.DueDate
		if d, ok := r.dates[op.ID]; ok {
			due = d.Due
		}
		entries = append(entries, domain.QueueEntry{
			OperationID:  op.ID,
			JobID:        r.job.ID,
			WorkCenterID: *wcID,
			DeadlineType: r.job.DeadlineType,
			DueDate:      due,
			JobPriority:  r.job.Priority,
			Priority:     op.Priority,
		})
	}

	r.jobSlots = make(map[uuid.UUID]int)
	for _, slot := range CalculatePriorities(entries) {
		if _, mine := jobOps[slot.OperationID]; mine {
			r.jobSlots[slot.OperationID] = slot.Priority
			continue
		}
		// Resident operation of another job: persist only real moves.
		if prev := existing[slot.OperationID]; prev == nil || *prev != slot.Priority {
			r.resident = append(r.resident, slot)
		}
	}
	return nil
}

// persist writes the computed schedule in one transaction per job, then
// flips the job to ready on initial runs.
func (r *run) persist(ctx context.Context) error {
	r.scheduled = make([]domain.ScheduledOperation, 0, len(r.ops))
	for _, op := range r.ops {
		s := domain.ScheduledOperation{OperationID: op.ID}
		if d, ok := r.dates[op.ID]; ok {
			start, due := d.Start, d.Due
			s.StartDate = &start
			s.DueDate = &due
			s.HasConflict = d.HasConflict
			s.ConflictReason = d.ConflictReason
		}
		if wcID := r.selected[op.ID]; wcID != nil {
			s.WorkCenterID = wcID
			if p, ok := r.jobSlots[op.ID]; ok {
				prio := p
				s.Priority = &prio
			}
		} else {
			s.HasConflict = true
			if s.ConflictReason == "" {
				s.ConflictReason = ReasonNoWorkCenter
			} else {
				s.ConflictReason += "; " + ReasonNoWorkCenter
			}
		}
		if s.HasConflict {
			r.conflicts++
			r.log.Warn("operation scheduled with conflict",
				"operation_id", op.ID,
				"reason", s.ConflictReason)
		}
		r.scheduled = append(r.scheduled, s)
	}

	if err := r.o.store.SaveScheduledOperations(ctx, r.opts.JobID, r.scheduled); err != nil {
		return fmt.Errorf("persist scheduled operations: %w", err)
	}
	if len(r.resident) > 0 {
		if err := r.o.store.SavePriorities(ctx, r.resident); err != nil {
			return fmt.Errorf("persist resident priorities: %w", err)
		}
	}
	if r.opts.Mode == domain.ModeInitial {
		if err := r.o.store.MarkJobReady(ctx, r.opts.JobID); err != nil {
			return fmt.Errorf("mark job ready: %w", err)
		}
	}
	return nil
}
