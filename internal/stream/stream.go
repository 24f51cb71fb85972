// Package stream implements the fixed-size audio streaming table that
// binds an audiopath route to a concrete audio device and moves sample
// blocks between them.
//
// Grounded on original_source/openrtx/src/core/audio_stream.c: a
// fixed-capacity stream table, device lookup by endpoint, and
// teardown-on-path-close, translated from the C file's static array of
// stream_t into a mutex-guarded map of *session.
package stream

import (
	"sync"

	"github.com/openrtx/m17core/internal/audiopath"
	"github.com/openrtx/m17core/internal/rtxerr"
)

// MaxNumStreams bounds how many concurrent streams the table can hold,
// matching the teacher's MAX_NUM_STREAMS convention of a small fixed
// capacity rather than an unbounded collection.
const MaxNumStreams = 4

// Device is the sample-block transport a stream reads from or writes to.
// A concrete implementation wraps a physical or virtual audio endpoint
// (e.g. a portaudio stream, or an RF baseband path).
type Device interface {
	// Endpoint names the device for stream-table lookup.
	Endpoint() audiopath.Endpoint
	// Write delivers one block of samples to an output device.
	Write(samples []float64) error
	// Read fills buf with the next block of samples from an input
	// device, returning the number of samples actually read.
	Read(buf []float64) (int, error)
	// Close releases the device's resources.
	Close() error
}

// StreamID identifies an open stream within a Table.
type StreamID uint32

type session struct {
	id     StreamID
	pathID audiopath.PathID
	source Device
	sink   Device
	bufA   []float64
	bufB   []float64
	active int // index (0 or 1) of the buffer currently owned by the writer
}

// Table holds up to MaxNumStreams concurrently active streams, each
// double-buffered between its source and sink Device.
type Table struct {
	mu      sync.Mutex
	arbiter *audiopath.Arbiter
	devices map[audiopath.Endpoint]Device
	streams map[StreamID]*session
	nextID  StreamID
	bufLen  int
}

// NewTable builds a Table bound to arbiter for path-status checks, using
// bufLen-sample double buffers.
func NewTable(arbiter *audiopath.Arbiter, bufLen int) *Table {
	return &Table{
		arbiter: arbiter,
		devices: make(map[audiopath.Endpoint]Device),
		streams: make(map[StreamID]*session),
		nextID:  1,
		bufLen:  bufLen,
	}
}

// RegisterDevice makes dev available for lookup by its Endpoint when
// Start is called.
func (t *Table) RegisterDevice(dev Device) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.devices[dev.Endpoint()] = dev
}

// Start opens a stream between the source and sink devices backing
// pathID's route, failing if the table is full, pathID is not OPEN, or
// either endpoint has no registered device.
func (t *Table) Start(pathID audiopath.PathID, source, sink audiopath.Endpoint) (StreamID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.streams) >= MaxNumStreams {
		return 0, rtxerr.New("stream.Start", rtxerr.ENOMEM)
	}

	if t.arbiter.GetStatus(pathID) != audiopath.StatusOpen {
		return 0, rtxerr.New("stream.Start", rtxerr.EPERM)
	}

	srcDev, ok := t.devices[source]
	if !ok {
		return 0, rtxerr.New("stream.Start", rtxerr.ENODEV)
	}
	sinkDev, ok := t.devices[sink]
	if !ok {
		return 0, rtxerr.New("stream.Start", rtxerr.ENODEV)
	}

	id := t.nextID
	t.nextID++

	t.streams[id] = &session{
		id:     id,
		pathID: pathID,
		source: srcDev,
		sink:   sinkDev,
		bufA:   make([]float64, t.bufLen),
		bufB:   make([]float64, t.bufLen),
	}
	return id, nil
}

// Sync pumps one buffer's worth of samples from the stream's source to
// its sink, tearing the stream down transparently if the arbiter reports
// its backing path has closed.
func (t *Table) Sync(id StreamID) error {
	t.mu.Lock()
	s, ok := t.streams[id]
	t.mu.Unlock()
	if !ok {
		return rtxerr.New("stream.Sync", rtxerr.EINVAL)
	}

	if t.arbiter.GetStatus(s.pathID) == audiopath.StatusClosed {
		return t.Stop(id)
	}
	if t.arbiter.GetStatus(s.pathID) == audiopath.StatusSuspended {
		return nil
	}

	buf := s.idleBuffer()
	n, err := s.source.Read(buf)
	if err != nil {
		return err
	}
	return s.sink.Write(buf[:n])
}

// idleBuffer returns the buffer not currently owned by the writer side
// and flips ownership, implementing the double-buffer handoff.
func (s *session) idleBuffer() []float64 {
	s.active ^= 1
	if s.active == 0 {
		return s.bufA
	}
	return s.bufB
}

// Stop tears down a stream, closing neither device (devices are shared
// and outlive individual streams) but freeing the stream's buffers.
func (t *Table) Stop(id StreamID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.streams[id]; !ok {
		return rtxerr.New("stream.Stop", rtxerr.EINVAL)
	}
	delete(t.streams, id)
	return nil
}

// Terminate tears down every open stream and releases every registered
// device.
func (t *Table) Terminate() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id := range t.streams {
		delete(t.streams, id)
	}
	for ep, dev := range t.devices {
		dev.Close()
		delete(t.devices, ep)
	}
	return nil
}
