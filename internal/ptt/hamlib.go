package ptt

import (
	"github.com/xylo04/goHamlib"
)

// HamlibBackend keys PTT via a HAMLIB-controlled rig, matching the
// teacher's PTT_METHOD_HAMLIB support for radios whose PTT line is only
// reachable through CAT control rather than a dedicated GPIO or serial
// handshake line.
type HamlibBackend struct {
	rig *goHamlib.Rig
}

// OpenHamlib opens rigModel on the given device path/address (a serial
// port for most rigs, or "host:port" for network rig control) and
// returns a Backend keying PTT through it.
func OpenHamlib(rigModel int, device string) (*HamlibBackend, error) {
	rig := &goHamlib.Rig{}
	if err := rig.Init(rigModel); err != nil {
		return nil, err
	}
	rig.SetConf("rig_pathname", device)
	if err := rig.Open(); err != nil {
		return nil, err
	}
	return &HamlibBackend{rig: rig}, nil
}

// Key implements Backend.
func (h *HamlibBackend) Key(on bool) error {
	return h.rig.SetPTT(goHamlib.VFOCurr, boolToPTT(on))
}

func boolToPTT(on bool) goHamlib.PTT {
	if on {
		return goHamlib.PTTOn
	}
	return goHamlib.PTTOff
}

// Close implements Backend.
func (h *HamlibBackend) Close() error {
	return h.rig.Close()
}
