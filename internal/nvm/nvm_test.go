package nvm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRegisterLookup(t *testing.T) {
	dir := NewDirectory()
	dir.Register("codeplug", NewMemDevice(1024))

	area, err := dir.Lookup("codeplug")
	require.NoError(t, err)
	assert.Equal(t, "codeplug", area.Name)
	assert.Equal(t, 1024, area.Dev.Size())
}

func TestDirectoryLookupMissing(t *testing.T) {
	dir := NewDirectory()
	_, err := dir.Lookup("nonexistent")
	assert.Error(t, err)
}

func TestDirectoryAreasOrder(t *testing.T) {
	dir := NewDirectory()
	dir.Register("calibration", NewMemDevice(64))
	dir.Register("codeplug", NewMemDevice(128))
	dir.Register("firmware", NewMemDevice(256))

	areas := dir.Areas()
	require.Len(t, areas, 3)
	assert.Equal(t, []string{"calibration", "codeplug", "firmware"}, []string{areas[0].Name, areas[1].Name, areas[2].Name})
}

func TestDirectoryRegisterOverwriteKeepsOrder(t *testing.T) {
	dir := NewDirectory()
	dir.Register("codeplug", NewMemDevice(64))
	dir.Register("codeplug", NewMemDevice(128))

	areas := dir.Areas()
	require.Len(t, areas, 1)
	assert.Equal(t, 128, areas[0].Dev.Size())
}

func TestMemDeviceReadWrite(t *testing.T) {
	dev := NewMemDevice(16)
	require.NoError(t, dev.Write(4, []byte{1, 2, 3}))

	got := make([]byte, 3)
	require.NoError(t, dev.Read(4, got))
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestMemDeviceBoundsChecked(t *testing.T) {
	dev := NewMemDevice(4)
	assert.Error(t, dev.Write(2, []byte{1, 2, 3}))
	assert.Error(t, dev.Read(-1, make([]byte, 1)))
}

func TestFileDeviceReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.bin")
	dev, err := OpenFileDevice(path, 64)
	require.NoError(t, err)
	defer dev.Close()

	require.NoError(t, dev.Write(10, []byte{0xAA, 0xBB}))

	got := make([]byte, 2)
	require.NoError(t, dev.Read(10, got))
	assert.Equal(t, []byte{0xAA, 0xBB}, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(64), info.Size())
}
