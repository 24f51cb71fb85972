package audiopath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflictsOnSharedEndpoint treats two routes as incompatible iff they
// share a source or a sink, the oracle shape spec.md §4.3 assumes.
func conflictsOnSharedEndpoint(a, b Route) bool {
	return a.Source != b.Source && a.Sink != b.Sink
}

// TestArbiterSuspensionScenario reproduces the worked example: request
// A=(MIC,RADIO,5) then B=(MIC,SPEAKER,7), which conflicts with A since
// they share a source. A should suspend, B stay open; releasing B
// reopens A.
func TestArbiterSuspensionScenario(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)

	a, err := arb.Request("mic", "radio", 5)
	require.NoError(t, err)
	b, err := arb.Request("mic", "speaker", 7)
	require.NoError(t, err)

	assert.Equal(t, StatusSuspended, arb.GetStatus(a))
	assert.Equal(t, StatusOpen, arb.GetStatus(b))

	require.NoError(t, arb.Release(b))
	assert.Equal(t, StatusOpen, arb.GetStatus(a))
}

// TestArbiterDeniesEqualOrHigherPriorityConflict covers the denial path:
// a request that conflicts with an active route of equal or higher
// priority must be rejected outright, leaving the existing route
// untouched.
func TestArbiterDeniesEqualOrHigherPriorityConflict(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)

	a, err := arb.Request("mic", "radio", 5)
	require.NoError(t, err)

	_, err = arb.Request("mic", "speaker", 5)
	assert.Error(t, err, "equal priority conflicting request must be denied")
	assert.Equal(t, StatusOpen, arb.GetStatus(a))

	_, err = arb.Request("mic", "speaker", 3)
	assert.Error(t, err, "lower priority conflicting request must be denied")
	assert.Equal(t, StatusOpen, arb.GetStatus(a))
}

// TestArbiterCompatibleRoutesCoexist confirms two compatible routes never
// suspend one another, independent of priority ordering.
func TestArbiterCompatibleRoutesCoexist(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)

	a, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)
	b, err := arb.Request("rx", "speaker", 9)
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, arb.GetStatus(a))
	assert.Equal(t, StatusOpen, arb.GetStatus(b))
}

// TestArbiterReleasePropagatesSuspensionDAG builds a three-deep
// suspension chain and confirms releasing the middle route correctly
// threads the top route's suspension onto the bottom one, rather than
// prematurely reactivating it.
func TestArbiterReleasePropagatesSuspensionDAG(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)

	low, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)
	mid, err := arb.Request("mic", "speaker", 5)
	require.NoError(t, err)
	high, err := arb.Request("mic", "bt", 9)
	require.NoError(t, err)

	require.Equal(t, StatusSuspended, arb.GetStatus(low))
	require.Equal(t, StatusSuspended, arb.GetStatus(mid))
	require.Equal(t, StatusOpen, arb.GetStatus(high))

	require.NoError(t, arb.Release(mid))

	assert.Equal(t, StatusSuspended, arb.GetStatus(low), "low must remain suspended by high after mid is released")
	assert.Equal(t, StatusOpen, arb.GetStatus(high))

	require.NoError(t, arb.Release(high))
	assert.Equal(t, StatusOpen, arb.GetStatus(low), "low must reopen once every suspending route is released")
}

func TestArbiterReleaseUnknownID(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)
	err := arb.Release(999)
	assert.Error(t, err)
}

func TestArbiterStatusClosedForUnknownID(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)
	assert.Equal(t, StatusClosed, arb.GetStatus(999))
}

func TestArbiterRoutesSnapshot(t *testing.T) {
	arb := New(conflictsOnSharedEndpoint)
	a, err := arb.Request("mic", "radio", 5)
	require.NoError(t, err)

	routes := arb.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, a, routes[0].ID)
	assert.Equal(t, Endpoint("mic"), routes[0].Source)
	assert.False(t, routes[0].Suspended)
}
