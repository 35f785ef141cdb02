package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/tcpspec/internal/batch"
	"github.com/danmuck/tcpspec/internal/config"
	"github.com/danmuck/tcpspec/internal/functions"
	"github.com/danmuck/tcpspec/internal/logging"
	"github.com/danmuck/tcpspec/internal/observability"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
)

type options struct {
	mode    string
	config  string
	shape   string
	hex     string
	fn      string
	output  string
	force   bool
	metrics bool
	args    []string
}

func main() {
	logging.ConfigureRuntime()
	opts := parseFlags(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func parseFlags(argv []string) options {
	var opts options
	fs := flag.NewFlagSet("tcpspecctl", flag.ExitOnError)
	fs.StringVar(&opts.mode, "mode", "encode", "mode: encode | decode | call | list | template")
	fs.StringVar(&opts.config, "config", "records.toml", "records file (encode mode)")
	fs.StringVar(&opts.shape, "shape", "canonical", "record shape: canonical | legacy (decode, template)")
	fs.StringVar(&opts.hex, "hex", "", "hex-encoded record (decode mode)")
	fs.StringVar(&opts.fn, "fn", "", "function name, e.g. tcp:beginExtRemoteHost (call mode)")
	fs.StringVar(&opts.output, "output", "records.toml", "template output path (template mode)")
	fs.BoolVar(&opts.force, "force", false, "overwrite an existing template")
	fs.BoolVar(&opts.metrics, "metrics", false, "print prometheus metrics after the run")
	_ = fs.Parse(argv)
	opts.args = fs.Args()
	return opts
}

func run(ctx context.Context, opts options, out io.Writer) error {
	var err error
	switch opts.mode {
	case "encode":
		err = runEncode(ctx, opts, out)
	case "decode":
		err = runDecode(opts, out)
	case "call":
		err = runCall(opts, out)
	case "list":
		for _, name := range functions.Default().Names() {
			fmt.Fprintln(out, name)
		}
	case "template":
		err = runTemplate(opts, out)
	default:
		return fmt.Errorf("unknown mode %q (supported: encode, decode, call, list, template)", opts.mode)
	}
	if err != nil {
		return err
	}
	if opts.metrics {
		return observability.WriteText(out)
	}
	return nil
}

func runEncode(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	configs, err := cfg.BeginExConfigs()
	if err != nil {
		return err
	}
	records, err := batch.EncodeAll(ctx, configs, cfg.Workers)
	if err != nil {
		return err
	}
	names := cfg.Names()
	for i, rec := range records {
		if err := verify(rec, cfg.Shape); err != nil {
			return fmt.Errorf("verify %s: %w", names[i], err)
		}
		fmt.Fprintf(out, "%s\t%s\n", names[i], hex.EncodeToString(rec))
	}
	log.Info().
		Str("config", opts.config).
		Stringer("shape", cfg.Shape).
		Int("records", len(records)).
		Msg("records encoded")
	return nil
}

// verify decodes rec and checks that it spans exactly the encoded bytes.
func verify(rec []byte, shape beginex.Shape) error {
	size, err := beginex.Wrap(rec, shape).SizeOf()
	observability.RecordDecode(shape, size, err)
	if err != nil {
		return err
	}
	if size != len(rec) {
		return fmt.Errorf("decoded %d bytes of %d", size, len(rec))
	}
	return nil
}

func runDecode(opts options, out io.Writer) error {
	shape, err := beginex.ParseShape(opts.shape)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimSpace(opts.hex))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	r, err := beginex.Wrap(raw, shape).Record()
	size := 0
	if err == nil {
		size, err = beginex.Wrap(raw, shape).SizeOf()
	}
	observability.RecordDecode(shape, size, err)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, r.String())
	if size < len(raw) {
		log.Warn().Int("trailing", len(raw)-size).Msg("ignored bytes after record")
	}
	return nil
}

func runCall(opts options, out io.Writer) error {
	if opts.fn == "" {
		return fmt.Errorf("call mode requires -fn")
	}
	rec, err := functions.Invoke(opts.fn, opts.args...)
	observability.RecordCall(functions.Qualify(opts.fn), err)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hex.EncodeToString(rec))
	return nil
}

func runTemplate(opts options, out io.Writer) error {
	if err := config.WriteTemplate(opts.output, opts.shape, opts.force); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s template to %s\n", opts.shape, opts.output)
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tcpspecctl: "+format+"\n", args...)
	os.Exit(1)
}
