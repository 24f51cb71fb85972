package stream

import (
	"github.com/gordonklaus/portaudio"

	"github.com/openrtx/m17core/internal/audiopath"
	"github.com/openrtx/m17core/internal/ptt"
	"github.com/openrtx/m17core/internal/rtxerr"
	"github.com/openrtx/m17core/internal/rtxlog"
)

// PortaudioDevice is a Device backed by a host portaudio input or output
// stream, used for the microphone/speaker endpoints of the audio path
// (the teacher repo declares gordonklaus/portaudio in go.mod but never
// exercises it; this is the new component that does).
type PortaudioDevice struct {
	endpoint audiopath.Endpoint
	stream   *portaudio.Stream
	isOutput bool
	buf      []float32
}

// OpenPortaudioInput opens the default input device as an Endpoint
// source, e.g. the microphone feeding the TX baseband encoder.
func OpenPortaudioInput(endpoint audiopath.Endpoint, sampleRate float64, bufLen int) (*PortaudioDevice, error) {
	d := &PortaudioDevice{endpoint: endpoint, buf: make([]float32, bufLen)}
	s, err := portaudio.OpenDefaultStream(1, 0, sampleRate, bufLen, d.buf)
	if err != nil {
		return nil, err
	}
	d.stream = s
	return d, d.stream.Start()
}

// OpenPortaudioOutput opens the default output device as an Endpoint
// sink, e.g. the speaker fed by the RX baseband decoder.
func OpenPortaudioOutput(endpoint audiopath.Endpoint, sampleRate float64, bufLen int) (*PortaudioDevice, error) {
	d := &PortaudioDevice{endpoint: endpoint, isOutput: true, buf: make([]float32, bufLen)}
	s, err := portaudio.OpenDefaultStream(0, 1, sampleRate, bufLen, d.buf)
	if err != nil {
		return nil, err
	}
	d.stream = s
	return d, d.stream.Start()
}

// Endpoint implements Device.
func (d *PortaudioDevice) Endpoint() audiopath.Endpoint { return d.endpoint }

// Write implements Device, downconverting float64 samples to the
// portaudio stream's float32 buffer.
func (d *PortaudioDevice) Write(samples []float64) error {
	if !d.isOutput {
		return rtxerr.New("stream.PortaudioDevice.Write", rtxerr.EPERM)
	}
	copy(d.buf, downconvert(samples))
	return d.stream.Write()
}

// Read implements Device.
func (d *PortaudioDevice) Read(out []float64) (int, error) {
	if d.isOutput {
		return 0, rtxerr.New("stream.PortaudioDevice.Read", rtxerr.EPERM)
	}
	if err := d.stream.Read(); err != nil {
		return 0, err
	}
	n := copy(out, upconvert(d.buf))
	return n, nil
}

// Close implements Device.
func (d *PortaudioDevice) Close() error {
	return d.stream.Close()
}

func downconvert(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func upconvert(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// RadioSink wraps a PortaudioDevice (or any Device) representing the RF
// path's modulator input, asserting PTT for the duration of a transmit
// burst via a ptt.Backend, grounded on the teacher's ptt.go pairing
// push-to-talk with the active transmit stream.
type RadioSink struct {
	inner Device
	ptt   ptt.Backend
	log   *rtxlog.Logger
	keyed bool
}

// NewRadioSink wraps inner with ptt key/unkey around Write calls.
func NewRadioSink(inner Device, backend ptt.Backend, log *rtxlog.Logger) *RadioSink {
	return &RadioSink{inner: inner, ptt: backend, log: log}
}

// Endpoint implements Device.
func (r *RadioSink) Endpoint() audiopath.Endpoint { return r.inner.Endpoint() }

// Write implements Device, keying PTT on first use and leaving it keyed
// across subsequent writes; callers unkey explicitly via Unkey once the
// transmission ends.
func (r *RadioSink) Write(samples []float64) error {
	if !r.keyed {
		if err := r.ptt.Key(true); err != nil {
			return err
		}
		r.keyed = true
		if r.log != nil {
			r.log.Debug("ptt keyed", "endpoint", r.Endpoint())
		}
	}
	return r.inner.Write(samples)
}

// Unkey releases PTT at the end of a transmit burst.
func (r *RadioSink) Unkey() error {
	if !r.keyed {
		return nil
	}
	r.keyed = false
	if r.log != nil {
		r.log.Debug("ptt unkeyed", "endpoint", r.Endpoint())
	}
	return r.ptt.Key(false)
}

// Read implements Device.
func (r *RadioSink) Read(buf []float64) (int, error) { return r.inner.Read(buf) }

// Close implements Device.
func (r *RadioSink) Close() error {
	r.Unkey()
	return r.inner.Close()
}
