package service

import "errors"

var (
	// ErrNoStations rejects a node save that would leave the node
	// with zero assigned stations.
	ErrNoStations = errors.New("a node must have at least one assigned station")

	// ErrPlanDeployed rejects mutations of a plan that has already
	// been deployed.
	ErrPlanDeployed = errors.New("plan is already deployed")

	// ErrNotDeployable reports nodes blocking a deployment; the
	// wrapping error names them.
	ErrNotDeployable = errors.New("plan has nodes without code or assignment")

	// ErrWorkerBusy rejects a deployment whose schedule would
	// double-book a worker against an existing commitment.
	ErrWorkerBusy = errors.New("worker already has an overlapping commitment")
)
