package conf

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Opts are the global command line options shared by every command.
type Opts struct {
	ConfigFile string `short:"C" long:"conf" description:"Path to YAML configuration file"`
	DataDir    string `long:"datadir" description:"specified program data dir"`
	RegTest    bool   `long:"regtest" description:"use the regression test network"`
	TestNet    bool   `long:"testnet" description:"use the test network"`
	LogLevel   string `long:"loglevel" description:"override the configured log level"`
}

// InitArgs parses the global options. Parsing stops at the first
// positional argument so commands can parse their own flags from rest.
func InitArgs(args []string) (*Opts, []string, error) {
	opts := new(Opts)
	parser := flags.NewParser(opts, flags.Default|flags.PassAfterNonOption)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}
	return opts, rest, nil
}

// Network resolves the network flags; regtest wins over testnet.
func (opts *Opts) Network(fallback string) string {
	switch {
	case opts.RegTest:
		return "regtest"
	case opts.TestNet:
		return "testnet"
	}
	return fallback
}

// Apply overlays the command line on a loaded configuration.
func (opts *Opts) Apply(cfg *Configuration) error {
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	cfg.Network = opts.Network(cfg.Network)
	return cfg.Validate()
}

func (opts *Opts) String() string {
	return fmt.Sprintf("conf:%s datadir:%s regtest:%v testnet:%v", opts.ConfigFile, opts.DataDir, opts.RegTest, opts.TestNet)
}
