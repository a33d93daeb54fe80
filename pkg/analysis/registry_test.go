package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(_ context.Context, _ *PassState) error { return nil }

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(StageSpec{Name: "alpha", Run: noop}))

	err := r.Register(StageSpec{Name: "alpha", Run: noop})
	assert.ErrorIs(t, err, ErrStageExists)
}

func TestRegisterRequiresNameAndRun(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(StageSpec{Run: noop}))
	assert.Error(t, r.Register(StageSpec{Name: "nameless-run"}))
}

func TestOrderedRespectsRequirements(t *testing.T) {
	r := NewRegistry()
	// Registered out of dependency order on purpose.
	require.NoError(t, r.Register(StageSpec{
		Name: "verdict", Requires: []string{"sim"}, Provides: []string{"verdict"}, Run: noop,
	}))
	require.NoError(t, r.Register(StageSpec{
		Name: "sim", Requires: []string{"structure"}, Provides: []string{"sim"}, Run: noop,
	}))
	require.NoError(t, r.Register(StageSpec{
		Name: "structure", Provides: []string{"structure"}, Run: noop,
	}))

	ordered, err := r.Ordered()
	require.NoError(t, err)

	var names []string
	for _, s := range ordered {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"structure", "sim", "verdict"}, names)
}

func TestOrderedBreaksTiesByRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(StageSpec{Name: "b", Provides: []string{"b"}, Run: noop}))
	require.NoError(t, r.Register(StageSpec{Name: "a", Provides: []string{"a"}, Run: noop}))

	ordered, err := r.Ordered()
	require.NoError(t, err)
	assert.Equal(t, "b", ordered[0].Name)
	assert.Equal(t, "a", ordered[1].Name)
}

func TestOrderedUnresolvedRequirement(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(StageSpec{
		Name: "lonely", Requires: []string{"missing"}, Run: noop,
	}))

	_, err := r.Ordered()
	assert.ErrorIs(t, err, ErrStageUnresolved)
}

func TestOrderedDetectsCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(StageSpec{
		Name: "x", Requires: []string{"y"}, Provides: []string{"x"}, Run: noop,
	}))
	require.NoError(t, r.Register(StageSpec{
		Name: "y", Requires: []string{"x"}, Provides: []string{"y"}, Run: noop,
	}))

	_, err := r.Ordered()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestDefaultRegistryOrder(t *testing.T) {
	r := DefaultRegistry(1, nil, nil)

	ordered, err := r.Ordered()
	require.NoError(t, err)

	var names []string
	for _, s := range ordered {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"topology", "dynamics", "perturbation", "quality"}, names)
}

func TestRegistriesAreIndependent(t *testing.T) {
	// Two registries never share state; registering in one does not leak
	// into the other.
	a := NewRegistry()
	b := NewRegistry()
	require.NoError(t, a.Register(StageSpec{Name: "only-in-a", Run: noop}))

	assert.Equal(t, []string{"only-in-a"}, a.Names())
	assert.Empty(t, b.Names())
}
