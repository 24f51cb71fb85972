// Package nvm models the radio's non-volatile memory areas (calibration
// data, codeplug, firmware image) as a directory of named, sized regions
// DAT can stream to and from over RTXLINK.
//
// Grounded on rtxlink_dat.c's struct nvmDescriptor / nvm_devRead /
// nvm_devWrite, translated from a global descriptor table into an
// explicit Directory type.
package nvm

import (
	"os"

	"github.com/openrtx/m17core/internal/rtxerr"
)

// Device is one addressable memory region: calibration, codeplug,
// firmware, etc.
type Device interface {
	// Size reports the device's total addressable size in bytes.
	Size() int
	// Read reads len(p) bytes starting at addr.
	Read(addr int, p []byte) error
	// Write writes p starting at addr.
	Write(addr int, p []byte) error
}

// Area names a Device within a Directory, mirroring struct nvmDescriptor.
type Area struct {
	Name string
	Dev  Device
}

// Directory is the radio's list of named NVM areas, the Go equivalent of
// nvm_getMemoryAreas()'s static descriptor array.
type Directory struct {
	areas map[string]Device
	order []string
}

// NewDirectory builds an empty Directory.
func NewDirectory() *Directory {
	return &Directory{areas: make(map[string]Device)}
}

// Register adds a named device to the directory.
func (d *Directory) Register(name string, dev Device) {
	if _, exists := d.areas[name]; !exists {
		d.order = append(d.order, name)
	}
	d.areas[name] = dev
}

// Lookup finds a named area, matching dat_readNvmArea/dat_writeNvmArea's
// descriptor-by-name resolution.
func (d *Directory) Lookup(name string) (Area, error) {
	dev, ok := d.areas[name]
	if !ok {
		return Area{}, rtxerr.New("nvm.Lookup", rtxerr.ENODEV)
	}
	return Area{Name: name, Dev: dev}, nil
}

// Areas lists every registered area in registration order.
func (d *Directory) Areas() []Area {
	out := make([]Area, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, Area{Name: name, Dev: d.areas[name]})
	}
	return out
}

// MemDevice is an in-memory Device, used for calibration/codeplug areas
// that don't warrant a real flash-backed implementation in this module.
type MemDevice struct {
	buf []byte
}

// NewMemDevice allocates a zeroed in-memory device of the given size.
func NewMemDevice(size int) *MemDevice {
	return &MemDevice{buf: make([]byte, size)}
}

// Size implements Device.
func (m *MemDevice) Size() int { return len(m.buf) }

// Read implements Device.
func (m *MemDevice) Read(addr int, p []byte) error {
	if addr < 0 || addr+len(p) > len(m.buf) {
		return rtxerr.New("nvm.MemDevice.Read", rtxerr.EINVAL)
	}
	copy(p, m.buf[addr:])
	return nil
}

// Write implements Device.
func (m *MemDevice) Write(addr int, p []byte) error {
	if addr < 0 || addr+len(p) > len(m.buf) {
		return rtxerr.New("nvm.MemDevice.Write", rtxerr.EINVAL)
	}
	copy(m.buf[addr:], p)
	return nil
}

// FileDevice is a Device backed by a regular file, used for the firmware
// image area so DAT transfers exercise real disk I/O.
type FileDevice struct {
	f    *os.File
	size int
}

// OpenFileDevice opens (or creates) path as a fixed-size file-backed
// device.
func OpenFileDevice(path string, size int) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDevice{f: f, size: size}, nil
}

// Size implements Device.
func (fd *FileDevice) Size() int { return fd.size }

// Read implements Device.
func (fd *FileDevice) Read(addr int, p []byte) error {
	_, err := fd.f.ReadAt(p, int64(addr))
	return err
}

// Write implements Device.
func (fd *FileDevice) Write(addr int, p []byte) error {
	_, err := fd.f.WriteAt(p, int64(addr))
	return err
}

// Close releases the underlying file.
func (fd *FileDevice) Close() error { return fd.f.Close() }
