package registry

import (
	"context"
	"testing"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repo with the same semantics as the SQLite
// implementation: counters start at 1, Store keeps the first writer's
// code.
type fakeRepo struct {
	codes    map[string]string
	counters map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{codes: make(map[string]string), counters: make(map[string]int)}
}

func (r *fakeRepo) Lookup(_ context.Context, sig string) (string, bool, error) {
	code, ok := r.codes[sig]
	return code, ok, nil
}

func (r *fakeRepo) PeekSeq(_ context.Context, prefix string) (int, error) {
	if n, ok := r.counters[prefix]; ok {
		return n, nil
	}
	return 1, nil
}

func (r *fakeRepo) NextSeq(_ context.Context, prefix string) (int, error) {
	if _, ok := r.counters[prefix]; !ok {
		r.counters[prefix] = 1
	}
	n := r.counters[prefix]
	r.counters[prefix] = n + 1
	return n, nil
}

func (r *fakeRepo) Store(_ context.Context, sig, _ string, code string) (string, error) {
	if have, ok := r.codes[sig]; ok {
		return have, nil
	}
	r.codes[sig] = code
	return code, nil
}

func qty(v float64) *float64 { return &v }

func eligibleInput() Input {
	return Input{
		Node: &domain.Node{
			ID:   "n1",
			Name: "Weld frame",
			Materials: []domain.MaterialEntry{
				{MaterialID: "RAW-1", Quantity: qty(2), Unit: "pcs"},
				{MaterialID: "K-001", Quantity: qty(1), Unit: "pcs", DerivedFrom: "n0"},
			},
			AssignedStations: []domain.StationSlot{{StationID: "st1", Priority: 1}},
		},
		Operation: domain.Operation{ID: "op-weld", Name: "Weld", OutputCode: "W"},
		Station:   &domain.Station{ID: "st1", Name: "Welding Bay"},
		StationOps: []domain.Operation{
			{ID: "op-weld", OutputCode: "W"},
			{ID: "op-grind", OutputCode: "G"},
		},
	}
}

func TestSignature_OrderIndependent(t *testing.T) {
	a := eligibleInput()
	b := eligibleInput()
	b.Node.Materials[0], b.Node.Materials[1] = b.Node.Materials[1], b.Node.Materials[0]

	assert.Equal(t, Signature(a), Signature(b))
}

func TestSignature_SensitiveToQuantityAndStation(t *testing.T) {
	a := eligibleInput()
	b := eligibleInput()
	b.Node.Materials[0].Quantity = qty(3)
	assert.NotEqual(t, Signature(a), Signature(b))

	c := eligibleInput()
	c.Station = &domain.Station{ID: "st2"}
	assert.NotEqual(t, Signature(a), Signature(c))
}

func TestPrefix_StationOpsSortedDeduped(t *testing.T) {
	in := eligibleInput()
	in.StationOps = []domain.Operation{
		{OutputCode: "W"},
		{OutputCode: "G"},
		{OutputCode: "W"},
	}
	assert.Equal(t, "GW", Prefix(in))
}

func TestPrefix_Fallbacks(t *testing.T) {
	in := eligibleInput()
	in.Station = nil
	in.StationOps = nil
	assert.Equal(t, "W", Prefix(in), "operation output code when no station")

	in.Operation.OutputCode = ""
	assert.Equal(t, "W", Prefix(in), "first letter of node name")

	in.Node.Name = ""
	in.Node.Type = "assembly"
	assert.Equal(t, "A", Prefix(in), "first letter of type")

	in.Node.Type = ""
	assert.Equal(t, "X", Prefix(in))
}

func TestPrefix_FirstLetterIsRuneSafe(t *testing.T) {
	in := eligibleInput()
	in.Station = nil
	in.Operation.OutputCode = ""
	in.Node.Name = "écrou"
	assert.Equal(t, "É", Prefix(in))
}

func TestEligible(t *testing.T) {
	in := eligibleInput()
	assert.True(t, in.Eligible())

	noStation := eligibleInput()
	noStation.Station = nil
	assert.False(t, noStation.Eligible())

	unknownQty := eligibleInput()
	unknownQty.Node.Materials[0].Quantity = nil
	assert.False(t, unknownQty.Eligible())
}

func TestCommit_IssuesAndDeduplicates(t *testing.T) {
	repo := newFakeRepo()
	reg := New(repo)
	ctx := context.Background()

	code, err := reg.Commit(ctx, eligibleInput())
	require.NoError(t, err)
	assert.Equal(t, "GW-001", code)

	// Same signature: same code, counter advanced exactly once.
	again, err := reg.Commit(ctx, eligibleInput())
	require.NoError(t, err)
	assert.Equal(t, code, again)
	assert.Equal(t, 2, repo.counters["GW"])

	// A different signature under the same prefix gets the next seq.
	other := eligibleInput()
	other.Node.Materials[0].Quantity = qty(5)
	code2, err := reg.Commit(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "GW-002", code2)
}

func TestPreview_MatchesCommitWithoutMutation(t *testing.T) {
	repo := newFakeRepo()
	reg := New(repo)
	ctx := context.Background()

	preview, err := reg.Preview(ctx, eligibleInput())
	require.NoError(t, err)
	assert.Equal(t, "GW-001", preview)
	assert.Empty(t, repo.codes)
	assert.Empty(t, repo.counters)

	// Repeated previews stay stable.
	preview2, err := reg.Preview(ctx, eligibleInput())
	require.NoError(t, err)
	assert.Equal(t, preview, preview2)

	code, err := reg.Commit(ctx, eligibleInput())
	require.NoError(t, err)
	assert.Equal(t, preview, code)

	// After commit, preview returns the mapped code.
	after, err := reg.Preview(ctx, eligibleInput())
	require.NoError(t, err)
	assert.Equal(t, code, after)
}

func TestCommit_IneligibleIsNoop(t *testing.T) {
	repo := newFakeRepo()
	reg := New(repo)

	in := eligibleInput()
	in.Node.Materials[0].Quantity = nil

	code, err := reg.Commit(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Empty(t, repo.counters)
}
