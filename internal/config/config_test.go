package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, OpModeNone, cfg.OpMode)
	assert.Equal(t, Bandwidth12_5, cfg.Bandwidth)
	assert.Equal(t, 5, cfg.SqlLevel)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.OpMode = OpModeM17
	cfg.RxFreqHz = 438500000
	cfg.SourceAddress = "AB1CDE"

	path := filepath.Join(t.TempDir(), "rtx.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFlagsApplyOverridesOnlySetFields(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--tx-frequency=438500000", "--source=N0CALL"}))

	cfg := Default()
	cfg.RxFreqHz = 123
	flags.Apply(&cfg)

	assert.Equal(t, uint64(438500000), cfg.TxFreqHz)
	assert.Equal(t, "N0CALL", cfg.SourceAddress)
	assert.Equal(t, uint64(123), cfg.RxFreqHz, "unset flag must not clobber the existing value")
}
