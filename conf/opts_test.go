package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var args = []string{
	"--datadir=/test",
	"--regtest",
	"--testnet",
	"-C", "/etc/xyond.yml",
	"decode",
}

var empty []string

func TestInitArgs(t *testing.T) {
	opts, rest, err := InitArgs(args)
	if err != nil {
		t.Error(err.Error())
	}

	if opts.DataDir != "/test" {
		t.Errorf("format DataDir error ")
	}

	if !opts.RegTest {
		t.Errorf("format RegTest error ")
	}

	if !opts.TestNet {
		t.Errorf("format TestNet error ")
	}

	assert.Equal(t, "/etc/xyond.yml", opts.ConfigFile)
	assert.Equal(t, []string{"decode"}, rest)
	assert.Equal(t, "regtest", opts.Network("mainnet"))

	opts, _, err = InitArgs(empty)
	assert.NoError(t, err)
	assert.Equal(t, "mainnet", opts.Network("mainnet"))

	_, _, err = InitArgs([]string{"--nosuchflag"})
	assert.Error(t, err)
}

func TestOptsApply(t *testing.T) {
	cfg, err := InitConfig("")
	assert.NoError(t, err)

	opts := &Opts{DataDir: "/data", TestNet: true, LogLevel: "debug"}
	assert.NoError(t, opts.Apply(cfg))
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitArgsCommandFlags(t *testing.T) {
	opts, rest, err := InitArgs([]string{"--regtest", "mine", "--algo", "sha256d"})
	assert.NoError(t, err)
	assert.True(t, opts.RegTest)
	assert.Equal(t, []string{"mine", "--algo", "sha256d"}, rest)
}
