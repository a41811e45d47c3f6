// Package registry issues deterministic, deduplicated semi-finished
// codes for node outputs. Codes are content-addressed: two nodes with
// the same operation, station, and material rows always resolve to the
// same code, and each prefix carries its own persistent counter.
package registry

import (
	"context"
	"fmt"

	"github.com/mbeckers/fabplan/internal/domain"
)

// Repo is the durable backing store for issued codes. Lookup and Peek
// are read-only; NextSeq must allocate atomically (transactional
// increment) so that concurrent commits from multiple sessions can
// never observe the same sequence value. Store persists a new mapping
// and returns the canonical code: when a concurrent commit already
// stored the signature, the winner's code comes back instead.
type Repo interface {
	Lookup(ctx context.Context, signature string) (string, bool, error)
	PeekSeq(ctx context.Context, prefix string) (int, error)
	NextSeq(ctx context.Context, prefix string) (int, error)
	Store(ctx context.Context, signature, prefix, code string) (string, error)
}

// Input bundles everything code issuance needs for one node: the node
// itself, its operation definition, its primary station (nil when none
// is assigned), and the operations that station supports.
type Input struct {
	Node       *domain.Node
	Operation  domain.Operation
	Station    *domain.Station
	StationOps []domain.Operation
}

// Eligible reports whether the node may receive a code: at least one
// assigned station and a known quantity on every material row.
func (in Input) Eligible() bool {
	if in.Station == nil || len(in.Node.AssignedStations) == 0 {
		return false
	}
	for _, m := range in.Node.Materials {
		if m.Quantity == nil {
			return false
		}
	}
	return true
}

// Registry resolves signatures to codes against an injected Repo.
type Registry struct {
	repo Repo
}

// New creates a Registry backed by the given repo.
func New(repo Repo) *Registry {
	return &Registry{repo: repo}
}

// Preview returns the code the signature would resolve to without
// mutating any counter: the mapped code when the signature is already
// known, otherwise the hypothetical next code for the prefix. It is
// side-effect free and may be called any number of times. Ineligible
// input yields an empty code and no error.
func (r *Registry) Preview(ctx context.Context, in Input) (string, error) {
	if !in.Eligible() {
		return "", nil
	}
	sig := Signature(in)
	if code, ok, err := r.repo.Lookup(ctx, sig); err != nil {
		return "", fmt.Errorf("previewing code: %w", err)
	} else if ok {
		return code, nil
	}
	prefix := Prefix(in)
	seq, err := r.repo.PeekSeq(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("previewing code for prefix %s: %w", prefix, err)
	}
	return Format(prefix, seq), nil
}

// Commit resolves the signature to a code, issuing a new one when the
// signature is unknown. Issuance reads the prefix counter atomically,
// stores the mapping, and returns the new code; committing the same
// signature twice returns the same code and advances the counter once.
// A failed counter or mapping write is fatal to the save that
// triggered it, since a lost increment risks duplicate codes.
// Ineligible input yields an empty code and no error.
func (r *Registry) Commit(ctx context.Context, in Input) (string, error) {
	if !in.Eligible() {
		return "", nil
	}
	sig := Signature(in)
	if code, ok, err := r.repo.Lookup(ctx, sig); err != nil {
		return "", fmt.Errorf("resolving code: %w", err)
	} else if ok {
		return code, nil
	}
	prefix := Prefix(in)
	seq, err := r.repo.NextSeq(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("allocating sequence for prefix %s: %w", prefix, err)
	}
	code, err := r.repo.Store(ctx, sig, prefix, Format(prefix, seq))
	if err != nil {
		return "", fmt.Errorf("storing code mapping: %w", err)
	}
	return code, nil
}

// Format renders a code as PREFIX-NNN with a three digit, zero padded
// sequence number.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}
