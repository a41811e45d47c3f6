package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckers/fabplan/internal/assign"
	"github.com/mbeckers/fabplan/internal/contract"
	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/mbeckers/fabplan/internal/graph"
	"github.com/mbeckers/fabplan/internal/registry"
	"github.com/mbeckers/fabplan/internal/repository"
)

type planService struct {
	plans     repository.PlanRepo
	ops       repository.OperationRepo
	stations  repository.StationRepo
	workers   repository.WorkerRepo
	schedules repository.ScheduleRepo
	ledger    repository.LedgerRepo
	codes     *registry.Registry
	resolver  *assign.Resolver
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

// NewPlanService wires the plan graph engine: graph mutations, code
// issuance, assignment resolution, and snapshot persistence.
func NewPlanService(
	plans repository.PlanRepo,
	ops repository.OperationRepo,
	stations repository.StationRepo,
	workers repository.WorkerRepo,
	schedules repository.ScheduleRepo,
	ledger repository.LedgerRepo,
	codeRepo registry.Repo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:     plans,
		ops:       ops,
		stations:  stations,
		workers:   workers,
		schedules: schedules,
		ledger:    ledger,
		codes:     registry.New(codeRepo),
		resolver:  assign.NewResolver(scheduleLookup{schedules}),
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       time.Now,
	}
}

// scheduleLookup adapts the repository to the resolver's read-only
// snapshot view.
type scheduleLookup struct {
	repo repository.ScheduleRepo
}

func (l scheduleLookup) ListOverlapping(ctx context.Context, workerID string, start, end time.Time) ([]domain.ScheduleEntry, error) {
	return l.repo.ListOverlapping(ctx, workerID, start, end)
}

func (s *planService) Create(ctx context.Context, name, orderRef string, kind domain.PlanKind) (*domain.Plan, error) {
	if kind == "" {
		kind = domain.KindPlan
	}
	now := s.now().UTC()
	p := &domain.Plan{
		ID:        uuid.New().String(),
		Name:      name,
		OrderRef:  orderRef,
		Kind:      kind,
		Status:    domain.PlanDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) Get(ctx context.Context, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) List(ctx context.Context, kind domain.PlanKind) ([]*domain.Plan, error) {
	return s.plans.List(ctx, kind)
}

func (s *planService) Delete(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}

// SaveAsTemplate copies the plan under a new id as a reusable
// template. Assignment state does not travel: templates describe the
// workflow, not who ran it last.
func (s *planService) SaveAsTemplate(ctx context.Context, planID, name string) (*domain.Plan, error) {
	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return nil, err
	}
	nodes := g.Nodes()
	for _, n := range nodes {
		n.AssignedWorker = ""
		n.AssignmentMode = domain.AssignNone
		n.AssignmentWarnings = nil
		n.RequiresAttention = false
	}
	now := s.now().UTC()
	tmpl := &domain.Plan{
		ID:        uuid.New().String(),
		Name:      name,
		OrderRef:  plan.OrderRef,
		Kind:      domain.KindTemplate,
		Status:    domain.PlanDraft,
		Nodes:     nodes,
		Edges:     g.Edges(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.plans.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *planService) AddNode(ctx context.Context, planID, operationID string) (*domain.Node, error) {
	op, err := s.ops.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return nil, err
	}
	node, err := g.AddNode(uuid.New().String(), *op)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, plan, g); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *planService) RemoveNode(ctx context.Context, planID, nodeID string) error {
	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return err
	}
	if err := g.RemoveNode(nodeID); err != nil {
		return err
	}
	return s.persist(ctx, plan, g)
}

func (s *planService) Connect(ctx context.Context, planID, fromID, toID string) error {
	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return err
	}
	if err := g.Connect(fromID, toID); err != nil {
		return err
	}
	return s.persist(ctx, plan, g)
}

func (s *planService) Disconnect(ctx context.Context, planID, fromID, toID string) error {
	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return err
	}
	if err := g.Disconnect(fromID, toID); err != nil {
		return err
	}
	return s.persist(ctx, plan, g)
}

// SaveNode applies a planner edit to one node and runs the full save
// pipeline: station validation, semi-finished code issuance,
// assignment resolution, downstream material propagation, and the
// ledger upsert. Nothing is persisted when any validation fails, so a
// rejected save leaves no partial state behind.
func (s *planService) SaveNode(ctx context.Context, planID, nodeID string, req contract.SaveNodeRequest) (node *domain.Node, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"plan": planID, "node": nodeID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "save-node",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == domain.PlanDeployed {
		return nil, ErrPlanDeployed
	}
	current, ok := g.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("node %s not in plan %s", nodeID, planID)
	}

	stations := current.AssignedStations
	if req.Stations != nil {
		stations = req.Stations
	}
	if len(stations) == 0 {
		return nil, ErrNoStations
	}

	patch := graph.NodePatch{
		Name:             req.Name,
		DurationMin:      req.DurationMin,
		OutputQty:        qtyPatch(req.OutputQty),
		OutputUnit:       req.OutputUnit,
		AssignedStations: &stations,
	}
	if req.Materials != nil {
		mats := req.Materials
		patch.Materials = &mats
	}
	if err = g.UpdateNode(nodeID, patch); err != nil {
		return nil, err
	}
	updated, _ := g.Node(nodeID)

	regIn, err := s.registryInput(ctx, updated)
	if err != nil {
		return nil, err
	}
	code, err := s.codes.Commit(ctx, regIn)
	if err != nil {
		return nil, err
	}
	if err = g.UpdateNode(nodeID, graph.NodePatch{SemiCode: &code}); err != nil {
		return nil, err
	}

	if req.Mode != domain.AssignNone {
		if err = s.resolveAssignment(ctx, g, nodeID, regIn.Station, req); err != nil {
			return nil, err
		}
	}

	if err = g.PropagateOutput(nodeID); err != nil {
		return nil, err
	}

	node, _ = g.Node(nodeID)
	fields["code"] = node.SemiCode
	fields["worker"] = node.AssignedWorker

	// The ledger row and the plan snapshot describe the same save,
	// so they land in one transaction.
	plan.Nodes = g.Nodes()
	plan.Edges = g.Edges()
	plan.UpdatedAt = s.now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if node.SemiCode != "" && node.OutputQty != nil {
			entry := &domain.LedgerEntry{
				SemiCode: node.SemiCode,
				Name:     node.Name,
				Quantity: *node.OutputQty,
				Unit:     node.OutputUnit,
				PlanID:   planID,
				NodeID:   nodeID,
			}
			if err := repository.NewSQLiteLedgerRepo(tx).Upsert(ctx, entry); err != nil {
				return err
			}
		}
		return repository.NewSQLitePlanRepo(tx).Save(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (s *planService) resolveAssignment(ctx context.Context, g *graph.Store, nodeID string, station *domain.Station, req contract.SaveNodeRequest) error {
	node, _ := g.Node(nodeID)
	pool, err := s.workers.List(ctx)
	if err != nil {
		return err
	}
	workers := make([]domain.Worker, 0, len(pool))
	for _, w := range pool {
		workers = append(workers, *w)
	}

	areq := assign.Request{Node: node, Station: station, Workers: workers}
	if req.WindowStart != nil && req.WindowEnd != nil {
		areq.Window = &assign.Window{Start: *req.WindowStart, End: *req.WindowEnd}
	}

	var res assign.Result
	switch req.Mode {
	case domain.AssignAuto:
		res, err = s.resolver.Auto(ctx, areq)
	case domain.AssignManual:
		res, err = s.resolver.Manual(ctx, areq, req.Worker)
	default:
		return fmt.Errorf("unknown assignment mode %q", req.Mode)
	}
	if err != nil {
		return err
	}

	return g.UpdateNode(nodeID, graph.NodePatch{
		AssignedWorker:     &res.Worker,
		AssignmentMode:     &res.Mode,
		AssignmentWarnings: &res.Warnings,
		RequiresAttention:  &res.RequiresAttention,
	})
}

// PreviewCode returns the semi-finished code the node's current state
// would resolve to, without advancing any counter.
func (s *planService) PreviewCode(ctx context.Context, planID, nodeID string) (string, error) {
	_, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return "", err
	}
	node, ok := g.Node(nodeID)
	if !ok {
		return "", fmt.Errorf("node %s not in plan %s", nodeID, planID)
	}
	regIn, err := s.registryInput(ctx, node)
	if err != nil {
		return "", err
	}
	return s.codes.Preview(ctx, regIn)
}

func (s *planService) ExecutionOrder(ctx context.Context, planID string) ([]string, error) {
	_, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return nil, err
	}
	return g.ExecutionOrder()
}

// Deploy freezes the plan: it computes the execution order, verifies
// every node carries a code and a worker, re-validates each worker's
// window against existing commitments, writes the schedule entries in
// one transaction, and marks the plan deployed. Each node starts when
// its last predecessor ends; a worker already booked in a computed
// window fails the whole deployment with ErrWorkerBusy.
func (s *planService) Deploy(ctx context.Context, planID string) (result *contract.DeployResult, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"plan": planID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "deploy-plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	plan, g, err := s.loadGraph(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == domain.PlanDeployed {
		return nil, ErrPlanDeployed
	}

	order, err := g.ExecutionOrder()
	if err != nil {
		return nil, err
	}

	var blocked []string
	for _, id := range order {
		n, _ := g.Node(id)
		if n.SemiCode == "" || n.AssignedWorker == "" {
			blocked = append(blocked, id)
		}
	}
	if len(blocked) > 0 {
		sort.Strings(blocked)
		return nil, fmt.Errorf("%w: %s", ErrNotDeployable, strings.Join(blocked, ", "))
	}

	ends := make(map[string]time.Time)
	base := s.now().UTC()
	scheduled := make([]contract.ScheduledNode, 0, len(order))
	for _, id := range order {
		n, _ := g.Node(id)
		start := base
		for _, pred := range g.Predecessors(id) {
			if e := ends[pred]; e.After(start) {
				start = e
			}
		}
		end := start.Add(time.Duration(n.DurationMin) * time.Minute)
		ends[id] = end
		scheduled = append(scheduled, contract.ScheduledNode{
			NodeID:   id,
			WorkerID: n.AssignedWorker,
			StartAt:  start,
			EndAt:    end,
		})
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedules := repository.NewSQLiteScheduleRepo(tx)
		txPlans := repository.NewSQLitePlanRepo(tx)
		for _, sn := range scheduled {
			// Assignment resolution read the schedule without a
			// lock, so the window is re-checked here before the
			// commitment is written.
			busy, err := txSchedules.ListOverlapping(ctx, sn.WorkerID, sn.StartAt, sn.EndAt)
			if err != nil {
				return err
			}
			if len(busy) > 0 {
				return fmt.Errorf("%w: worker %s, node %s", ErrWorkerBusy, sn.WorkerID, sn.NodeID)
			}
			entry := &domain.ScheduleEntry{
				ID:       uuid.New().String(),
				WorkerID: sn.WorkerID,
				PlanID:   planID,
				NodeID:   sn.NodeID,
				StartAt:  sn.StartAt,
				EndAt:    sn.EndAt,
			}
			if err := txSchedules.Create(ctx, entry); err != nil {
				return err
			}
		}
		plan.Status = domain.PlanDeployed
		plan.UpdatedAt = s.now().UTC()
		plan.Nodes = g.Nodes()
		plan.Edges = g.Edges()
		return txPlans.Save(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	fields["nodes"] = len(order)
	return &contract.DeployResult{PlanID: planID, Order: order, Scheduled: scheduled}, nil
}

// registryInput assembles code-issuance inputs for a node: its
// operation, its primary station with effective skills, and the
// operations that station supports.
func (s *planService) registryInput(ctx context.Context, node *domain.Node) (registry.Input, error) {
	op, err := s.ops.GetByID(ctx, node.OperationID)
	if err != nil {
		return registry.Input{}, err
	}
	in := registry.Input{Node: node, Operation: *op}

	primary := node.PrimaryStation()
	if primary == "" {
		return in, nil
	}
	station, err := s.stations.GetByID(ctx, primary)
	if err != nil {
		return registry.Input{}, err
	}
	stationOps, err := s.stations.SupportedOperations(ctx, primary)
	if err != nil {
		return registry.Input{}, err
	}
	in.Station = station
	in.StationOps = make([]domain.Operation, 0, len(stationOps))
	for _, so := range stationOps {
		in.StationOps = append(in.StationOps, *so)
	}
	return in, nil
}

func (s *planService) loadGraph(ctx context.Context, planID string) (*domain.Plan, *graph.Store, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	g, err := graph.Load(plan.Nodes, plan.Edges)
	if err != nil {
		return nil, nil, fmt.Errorf("loading plan %s: %w", planID, err)
	}
	return plan, g, nil
}

func (s *planService) persist(ctx context.Context, plan *domain.Plan, g *graph.Store) error {
	plan.Nodes = g.Nodes()
	plan.Edges = g.Edges()
	plan.UpdatedAt = s.now().UTC()
	return s.plans.Save(ctx, plan)
}

func qtyPatch(q *float64) **float64 {
	if q == nil {
		return nil
	}
	return &q
}
