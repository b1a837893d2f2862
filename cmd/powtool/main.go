// Command powtool decodes, mines and validates block pow data from the
// command line.
//
//	powtool [global options] decode <powdata hex>
//	powtool [global options] mine [--algo a] [--bits b] [--time t] [--prev hash] [--store]
//	powtool [global options] validate <block hash> <powdata hex>
//	powtool [global options] show [block hash]
//	powtool [global options] params
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/copernet/xyond/conf"
	"github.com/copernet/xyond/log"
	"github.com/copernet/xyond/logic/lpow"
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/chainparams"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/model/powdata"
	"github.com/copernet/xyond/persist/db"
	"github.com/copernet/xyond/util"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	logModule   = "powtool"
	storeDBName = "powdata"
)

type mineOpts struct {
	Algo  string `long:"algo" description:"mining algorithm, sha256d or neoscrypt"`
	Bits  string `long:"bits" description:"compact target in hex, defaults to the algorithm limit"`
	Time  uint32 `long:"time" description:"block time, defaults to now"`
	Prev  string `long:"prev" description:"previous block hash, defaults to genesis"`
	Store bool   `long:"store" description:"save the result in the pow database"`
}

type env struct {
	cfg    *conf.Configuration
	params *chainparams.BitcoinParams
	out    io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdout)
	log.Flush()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(args []string, out io.Writer) (*env, []string, error) {
	opts, rest, err := conf.InitArgs(args)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := conf.InitConfig(opts.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	if err := opts.Apply(cfg); err != nil {
		return nil, nil, err
	}
	if err := log.Init(cfg.Log.Dir, cfg.Log.Level, cfg.Log.Console); err != nil {
		return nil, nil, err
	}
	log.SetModules(cfg.Log.Modules)

	params, err := chainparams.SelectNetParams(cfg.Network)
	if err != nil {
		return nil, nil, err
	}
	log.Print(logModule, "debug", "options %s, network %s", opts, params.Name)
	return &env{cfg: cfg, params: params, out: out}, rest, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	e, rest, err := setup(args, out)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errors.New("missing command: decode, mine, validate, show or params")
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "decode":
		return e.decode(cmdArgs)
	case "mine":
		return e.mine(ctx, cmdArgs)
	case "validate":
		return e.validate(cmdArgs)
	case "show":
		return e.show(cmdArgs)
	case "params":
		return e.showParams()
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

func (e *env) printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, string(out))
	return err
}

func (e *env) openStore() (*lpow.PowStore, error) {
	return lpow.NewPowStore(&db.DBOption{
		FilePath:  filepath.Join(e.cfg.DataDir, e.params.Name, storeDBName),
		CacheSize: 1 << 20,
	})
}

func (e *env) decode(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: decode <powdata hex>")
	}
	pd, err := powdata.DecodeHex(args[0])
	if err != nil {
		return err
	}
	return e.printJSON(pd)
}

type mineResult struct {
	Hash    string           `json:"hash"`
	RngSeed string           `json:"rngseed"`
	Header  string           `json:"header"`
	PowData string           `json:"powdata"`
	Pow     *powdata.PowData `json:"pow"`
	Elapsed string           `json:"elapsed"`
}

func (e *env) mine(ctx context.Context, args []string) error {
	opts := &mineOpts{Algo: e.cfg.Mining.Algo}
	if _, err := flags.ParseArgs(opts, args); err != nil {
		return err
	}
	algo, err := pow.AlgoFromString(opts.Algo)
	if err != nil {
		return err
	}

	bits := pow.TargetToCompact(pow.LimitForAlgo(algo, &e.params.Param))
	if opts.Bits != "" {
		v, err := strconv.ParseUint(opts.Bits, 16, 32)
		if err != nil {
			return errors.Wrapf(err, "bits %q", opts.Bits)
		}
		bits = uint32(v)
	}

	hdr := block.NewBlockHeader()
	hdr.Bits = bits
	hdr.Time = opts.Time
	if hdr.Time == 0 {
		hdr.Time = uint32(util.GetTime())
	}
	hdr.HashPrevBlock = *e.params.GenesisHash
	if opts.Prev != "" {
		prev, err := util.GetHashFromStr(opts.Prev)
		if err != nil {
			return err
		}
		hdr.HashPrevBlock = *prev
	}

	start := time.Now()
	miner := lpow.NewMinerFromConfig(e.cfg, &e.params.Param)
	pd, err := miner.Mine(ctx, hdr, algo, bits)
	if err != nil {
		return err
	}
	hash := hdr.GetHash()
	log.Print(logModule, "info", "mined block %s with %s in %s", hash, algo, time.Since(start))

	if opts.Store {
		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Put(&hash, pd, false); err != nil {
			return err
		}
		if err := store.SetBestHash(&hash, true); err != nil {
			return err
		}
	}

	encoded, err := pd.EncodeHex()
	if err != nil {
		return err
	}
	seed := hdr.RngSeed()
	return e.printJSON(&mineResult{
		Hash:    hash.String(),
		RngSeed: seed.String(),
		Header:  fmt.Sprintf("%x", hdr.Bytes()),
		PowData: encoded,
		Pow:     pd,
		Elapsed: time.Since(start).String(),
	})
}

func (e *env) validate(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: validate <block hash> <powdata hex>")
	}
	hash, err := util.GetHashFromStr(args[0])
	if err != nil {
		return err
	}
	pd, err := powdata.DecodeHex(args[1])
	if err != nil {
		return err
	}

	v, err := lpow.NewValidator(&e.params.Param, e.cfg.Validation.Workers, e.cfg.Validation.HashCacheSize)
	if err != nil {
		return err
	}
	valid := v.IsValid(hash, pd)
	_, err = fmt.Fprintf(e.out, "%s %s: valid=%v work=%s\n", e.params.Name, hash, valid,
		pow.BlockProof(pd.GetCoreAlgo(), pd.GetBits()).ToBig().String())
	return err
}

// show prints stored pow data, by default that of the last block mined
// with --store.
func (e *env) show(args []string) error {
	if len(args) > 1 {
		return errors.New("usage: show [block hash]")
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var hash *util.Hash
	if len(args) == 1 {
		hash, err = util.GetHashFromStr(args[0])
	} else {
		hash, err = store.BestHash()
	}
	if err != nil {
		return err
	}
	pd, err := store.Get(hash)
	if err != nil {
		return err
	}
	return e.printJSON(pd)
}

type paramsResult struct {
	Name           string `json:"name"`
	Magic          string `json:"magic"`
	Port           string `json:"port"`
	Genesis        string `json:"genesis"`
	BlockTime      string `json:"blocktime"`
	LimitBits      string `json:"limitbits"`
	LimitNeoscrypt string `json:"limit_neoscrypt"`
	LimitSha256d   string `json:"limit_sha256d"`
}

func (e *env) showParams() error {
	p := e.params
	return e.printJSON(&paramsResult{
		Name:           p.Name,
		Magic:          fmt.Sprintf("%08x", p.Net),
		Port:           p.DefaultPort,
		Genesis:        p.GenesisHash.String(),
		BlockTime:      p.TargetTimePerBlock.String(),
		LimitBits:      fmt.Sprintf("%08x", p.PowLimitBits),
		LimitNeoscrypt: fmt.Sprintf("%08x", pow.TargetToCompact(pow.LimitForAlgo(pow.AlgoNeoscrypt, &p.Param))),
		LimitSha256d:   fmt.Sprintf("%08x", pow.TargetToCompact(pow.LimitForAlgo(pow.AlgoSha256d, &p.Param))),
	})
}
