package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
	"github.com/rigado/btadapter/adapter"
	"github.com/rigado/btadapter/config"
	"github.com/rigado/btadapter/property"
	"github.com/rigado/btadapter/replay"
	"github.com/urfave/cli"
	"gopkg.in/natefinch/lumberjack.v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	app := cli.NewApp()
	app.Name = "btadapter"
	app.Usage = "decode adapter property blobs and replay connection callbacks"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML config file"},
		cli.StringFlag{Name: "log-level", Usage: "override the configured log level"},
	}
	app.Before = setup

	blobFlags := []cli.Flag{
		cli.StringFlag{Name: "hex", Usage: "blob as hex"},
		cli.StringFlag{Name: "file, f", Usage: "read the raw blob from a file, - for stdin"},
	}

	app.Commands = []cli.Command{
		{
			Name:  "decode",
			Usage: "decode a raw property blob and print it as JSON",
			Subcommands: []cli.Command{
				{Name: "features", Usage: "LE feature blob", Flags: blobFlags, Action: decodeFeatures},
				{Name: "buffers", Usage: "dynamic audio buffer constraints", Flags: blobFlags, Action: decodeBuffers},
				{Name: "players", Usage: "allowlisted media players", Flags: append(blobFlags,
					cli.BoolFlag{Name: "drop-trailing", Usage: "drop a final name without a NUL"},
				), Action: decodePlayers},
				{Name: "addrs", Usage: "bonded device address list", Flags: blobFlags, Action: decodeAddrs},
				{Name: "uuids", Usage: "service uuid list", Flags: blobFlags, Action: decodeUUIDs},
			},
		},
		{
			Name:      "replay",
			Usage:     "run a JSON callback script through a controller",
			ArgsUsage: "<script.json>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "snapshot", Usage: "print the final controller state"},
			},
			Action: runReplay,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var cfg *config.Config

func setup(ctx *cli.Context) error {
	var err error
	cfg, err = config.Load(ctx.String("config"))
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
	}

	l, err := btadapter.NewLogger(cfg.Log.Level, out)
	if err != nil {
		return err
	}
	btadapter.SetLogger(l)

	if lvl := ctx.String("log-level"); lvl != "" {
		return btadapter.SetLogLevel(lvl)
	}
	return nil
}

func readBlob(ctx *cli.Context) ([]byte, error) {
	if h := ctx.String("hex"); h != "" {
		h = strings.NewReplacer(" ", "", ":", "").Replace(h)
		return hex.DecodeString(h)
	}

	switch f := ctx.String("file"); f {
	case "":
		return nil, errors.New("one of --hex or --file is required")
	case "-":
		return ioutil.ReadAll(os.Stdin)
	default:
		return ioutil.ReadFile(f)
	}
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func decodeFeatures(ctx *cli.Context) error {
	b, err := readBlob(ctx)
	if err != nil {
		return err
	}
	f, err := property.DecodeFeatureCapabilities(b)
	if err != nil {
		return err
	}
	return printJSON(f)
}

func decodeBuffers(ctx *cli.Context) error {
	b, err := readBlob(ctx)
	if err != nil {
		return err
	}
	t, err := property.DecodeBufferConstraints(b)
	if err != nil {
		return err
	}
	return printJSON(t)
}

func decodePlayers(ctx *cli.Context) error {
	b, err := readBlob(ctx)
	if err != nil {
		return err
	}

	trailing := btadapter.TrailingInclude
	if ctx.Bool("drop-trailing") {
		trailing = btadapter.TrailingDrop
	}
	return printJSON(property.DecodeAllowlistedPlayers(b, trailing))
}

func decodeAddrs(ctx *cli.Context) error {
	b, err := readBlob(ctx)
	if err != nil {
		return err
	}
	a, err := property.DecodeAddressList(b)
	if err != nil {
		return err
	}
	return printJSON(a)
}

func decodeUUIDs(ctx *cli.Context) error {
	b, err := readBlob(ctx)
	if err != nil {
		return err
	}
	u, err := property.DecodeUUIDList(b)
	if err != nil {
		return err
	}
	return printJSON(u)
}

func runReplay(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("replay needs exactly one script")
	}

	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := replay.Load(f)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, btadapter.OptSink(replay.NewJSONSink(os.Stdout)))

	c, err := adapter.New(opts...)
	if err != nil {
		return err
	}

	failed := replay.Run(c, s)
	for _, e := range failed {
		btadapter.GetLogger().Warn(e.Error())
	}

	if ctx.Bool("snapshot") {
		if err := printJSON(c.Snapshot()); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return errors.Errorf("%d of %d steps rejected", len(failed), len(s))
	}
	return nil
}
