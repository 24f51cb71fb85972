package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrtx/m17core/internal/audiopath"
)

type fakeDevice struct {
	ep     audiopath.Endpoint
	in     []float64
	out    []float64
	closed bool
}

func (d *fakeDevice) Endpoint() audiopath.Endpoint { return d.ep }

func (d *fakeDevice) Read(buf []float64) (int, error) {
	n := copy(buf, d.in)
	return n, nil
}

func (d *fakeDevice) Write(samples []float64) error {
	d.out = append(d.out, samples...)
	return nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func alwaysCompatible(a, b audiopath.Route) bool { return true }

func TestStreamStartAndSync(t *testing.T) {
	arb := audiopath.New(alwaysCompatible)
	tbl := NewTable(arb, 4)

	src := &fakeDevice{ep: "mic", in: []float64{1, 2, 3, 4}}
	sink := &fakeDevice{ep: "radio"}
	tbl.RegisterDevice(src)
	tbl.RegisterDevice(sink)

	pathID, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)

	id, err := tbl.Start(pathID, "mic", "radio")
	require.NoError(t, err)

	require.NoError(t, tbl.Sync(id))
	assert.Equal(t, []float64{1, 2, 3, 4}, sink.out)
}

// TestStreamPathClosedTeardown reproduces the worked example: releasing
// a stream's backing path before its next sync tears the stream down,
// and further syncs are idempotent rather than erroring loudly or
// panicking.
func TestStreamPathClosedTeardown(t *testing.T) {
	arb := audiopath.New(alwaysCompatible)
	tbl := NewTable(arb, 4)

	src := &fakeDevice{ep: "mic"}
	sink := &fakeDevice{ep: "radio"}
	tbl.RegisterDevice(src)
	tbl.RegisterDevice(sink)

	pathID, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)

	id, err := tbl.Start(pathID, "mic", "radio")
	require.NoError(t, err)

	require.NoError(t, arb.Release(pathID))

	assert.NoError(t, tbl.Sync(id), "teardown sync must not itself error")

	err = tbl.Sync(id)
	assert.Error(t, err, "syncing a torn-down stream must fail rather than silently succeed")
}

func TestStreamStartUnknownDevice(t *testing.T) {
	arb := audiopath.New(alwaysCompatible)
	tbl := NewTable(arb, 4)

	pathID, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)

	_, err = tbl.Start(pathID, "mic", "radio")
	assert.Error(t, err)
}

func TestStreamTableCapacity(t *testing.T) {
	arb := audiopath.New(alwaysCompatible)
	tbl := NewTable(arb, 4)

	for i := 0; i < MaxNumStreams; i++ {
		src := &fakeDevice{ep: audiopath.Endpoint("src")}
		sink := &fakeDevice{ep: audiopath.Endpoint("sink")}
		tbl.RegisterDevice(src)
		tbl.RegisterDevice(sink)

		pathID, err := arb.Request("src", "sink", audiopath.Priority(i))
		require.NoError(t, err)
		_, err = tbl.Start(pathID, "src", "sink")
		require.NoError(t, err)
	}

	pathID, err := arb.Request("src", "sink", 99)
	require.NoError(t, err)
	_, err = tbl.Start(pathID, "src", "sink")
	assert.Error(t, err, "table must reject a stream beyond MaxNumStreams")
}

func TestStreamSuspendedPathSkipsSync(t *testing.T) {
	conflict := func(a, b audiopath.Route) bool { return a.Sink != b.Sink }
	arb := audiopath.New(conflict)
	tbl := NewTable(arb, 4)

	src := &fakeDevice{ep: "mic", in: []float64{9}}
	sink := &fakeDevice{ep: "radio"}
	tbl.RegisterDevice(src)
	tbl.RegisterDevice(sink)

	low, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)
	id, err := tbl.Start(low, "mic", "radio")
	require.NoError(t, err)

	_, err = arb.Request("bt", "radio", 9)
	require.NoError(t, err)
	require.Equal(t, audiopath.StatusSuspended, arb.GetStatus(low))

	require.NoError(t, tbl.Sync(id))
	assert.Empty(t, sink.out, "a suspended path's stream must not move samples")
}

func TestStreamStartRejectsSuspendedPath(t *testing.T) {
	conflict := func(a, b audiopath.Route) bool { return a.Sink != b.Sink }
	arb := audiopath.New(conflict)
	tbl := NewTable(arb, 4)

	src := &fakeDevice{ep: "mic"}
	sink := &fakeDevice{ep: "radio"}
	tbl.RegisterDevice(src)
	tbl.RegisterDevice(sink)

	low, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)

	_, err = arb.Request("bt", "radio", 9)
	require.NoError(t, err)
	require.Equal(t, audiopath.StatusSuspended, arb.GetStatus(low))

	_, err = tbl.Start(low, "mic", "radio")
	assert.Error(t, err, "starting a stream on a suspended path must fail")
}

func TestStreamStartRejectsReleasedPath(t *testing.T) {
	arb := audiopath.New(alwaysCompatible)
	tbl := NewTable(arb, 4)

	src := &fakeDevice{ep: "mic"}
	sink := &fakeDevice{ep: "radio"}
	tbl.RegisterDevice(src)
	tbl.RegisterDevice(sink)

	pathID, err := arb.Request("mic", "radio", 1)
	require.NoError(t, err)
	require.NoError(t, arb.Release(pathID))

	_, err = tbl.Start(pathID, "mic", "radio")
	assert.Error(t, err, "starting a stream on a released path must fail")
}

func TestStreamTerminateClosesDevices(t *testing.T) {
	arb := audiopath.New(alwaysCompatible)
	tbl := NewTable(arb, 4)

	src := &fakeDevice{ep: "mic"}
	sink := &fakeDevice{ep: "radio"}
	tbl.RegisterDevice(src)
	tbl.RegisterDevice(sink)

	require.NoError(t, tbl.Terminate())
	assert.True(t, src.closed)
	assert.True(t, sink.closed)
}
