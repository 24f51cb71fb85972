package dat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrtx/m17core/internal/nvm"
)

func newTestDir(t *testing.T, name string, size int, fill byte) *nvm.Directory {
	dir := nvm.NewDirectory()
	dev := nvm.NewMemDevice(size)
	if fill != 0 {
		buf := make([]byte, size)
		for i := range buf {
			buf[i] = fill
		}
		require.NoError(t, dev.Write(0, buf))
	}
	dir.Register(name, dev)
	return dir
}

func TestDATReadTransfer(t *testing.T) {
	dir := newTestDir(t, "codeplug", BlockSize+10, 0xAB)
	s := NewSession(dir)
	h := s.Handler()

	tx := make([]byte, 4+BlockSize)
	n := h(append([]byte{byte(OpStartRead)}, []byte("codeplug")...), tx)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(0x06), tx[0])
	assert.Equal(t, StateRead, s.State())

	n = h([]byte{byte(OpNextBlock)}, tx)
	require.Equal(t, 2+BlockSize, n)
	assert.Equal(t, byte(1), tx[0])
	assert.Equal(t, byte(^byte(1)), tx[1])
	for _, b := range tx[2 : 2+BlockSize] {
		assert.Equal(t, byte(0xAB), b)
	}

	n = h([]byte{byte(OpNextBlock)}, tx)
	require.Equal(t, 2+10, n)
	assert.Equal(t, byte(2), tx[0])

	n = h([]byte{byte(OpNextBlock)}, tx)
	require.Equal(t, 2, n)
	assert.Equal(t, byte(0), tx[0])
	assert.Equal(t, byte(0xFF), tx[1])
	assert.Equal(t, StateIdle, s.State())
}

func TestDATWriteTransfer(t *testing.T) {
	dir := newTestDir(t, "calibration", 8, 0)
	s := NewSession(dir)
	h := s.Handler()

	payload := append([]byte("calibration"), 0, 0, 0, 8)
	tx := make([]byte, 4)
	n := h(append([]byte{byte(OpStartWrite)}, payload...), tx)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(0x06), tx[0])
	assert.Equal(t, StateWrite, s.State())

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	block := append([]byte{1, ^byte(1)}, data...)
	n = h(append([]byte{byte(OpWriteBlock)}, block...), tx)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(0x06), tx[0])
	assert.Equal(t, StateIdle, s.State())

	area, err := dir.Lookup("calibration")
	require.NoError(t, err)
	got := make([]byte, 8)
	require.NoError(t, area.Dev.Read(0, got))
	assert.Equal(t, data, got)
}

func TestDATWriteBlockChecksumMismatch(t *testing.T) {
	dir := newTestDir(t, "calibration", 8, 0)
	s := NewSession(dir)
	h := s.Handler()

	tx := make([]byte, 4)
	payload := append([]byte("calibration"), 0, 0, 0, 8)
	h(append([]byte{byte(OpStartWrite)}, payload...), tx)

	bad := append([]byte{1, 1}, make([]byte, 8)...)
	n := h(append([]byte{byte(OpWriteBlock)}, bad...), tx)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(nak), tx[0])
}

func TestDATStartReadUnknownArea(t *testing.T) {
	dir := nvm.NewDirectory()
	s := NewSession(dir)
	h := s.Handler()

	tx := make([]byte, 4)
	n := h(append([]byte{byte(OpStartRead)}, []byte("missing")...), tx)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(nak), tx[0])
	assert.Equal(t, StateIdle, s.State())
}

func TestDATAbortResetsState(t *testing.T) {
	dir := newTestDir(t, "codeplug", BlockSize, 0)
	s := NewSession(dir)
	h := s.Handler()

	tx := make([]byte, 4)
	h(append([]byte{byte(OpStartRead)}, []byte("codeplug")...), tx)
	require.Equal(t, StateRead, s.State())

	n := h([]byte{byte(OpAbort)}, tx)
	require.Equal(t, 1, n)
	assert.Equal(t, byte(ack), tx[0])
	assert.Equal(t, StateIdle, s.State())
}
