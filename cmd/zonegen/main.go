package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/udisondev/endlessdepth/internal/config"
	"github.com/udisondev/endlessdepth/internal/orchestrator"
	"github.com/udisondev/endlessdepth/internal/profile"
	"github.com/udisondev/endlessdepth/internal/zonegen"
)

func main() {
	var (
		actsFile = flag.String("acts", "", "act catalog YAML (default: built-in)")
		actID    = flag.String("act", "ashen_reach", "act id")
		seed     = flag.Uint("seed", 42, "world seed")
		run      = flag.Int("run", 0, "run index")
		from     = flag.Int("from", 0, "first zone index (inclusive)")
		to       = flag.Int("to", 9, "last zone index (inclusive)")
		outPath  = flag.String("out", "-", "output path, - for stdout")
		compress = flag.Bool("zstd", false, "zstd-compress the output (implied by a .zst suffix)")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	catalog, err := config.LoadCatalog(*actsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalog:", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	opts := dumpOptions{
		act:      *actID,
		seed:     uint32(*seed),
		run:      *run,
		from:     *from,
		to:       *to,
		compress: *compress || strings.HasSuffix(*outPath, ".zst"),
	}
	if err := dump(out, catalog, opts); err != nil {
		fmt.Fprintln(os.Stderr, "zonegen:", err)
		os.Exit(1)
	}
}

type dumpOptions struct {
	act      string
	seed     uint32
	run      int
	from, to int
	compress bool
}

// dump writes one JSON zone per line for zone indices [from, to], following
// the same unlock and freshness path a live run takes.
func dump(w io.Writer, catalog *config.Catalog, opts dumpOptions) (err error) {
	if opts.from < 0 || opts.to < opts.from {
		return fmt.Errorf("invalid zone range %d..%d", opts.from, opts.to)
	}

	bw := bufio.NewWriter(w)
	var sink io.Writer = bw
	var enc *zstd.Encoder
	if opts.compress {
		enc, err = zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		sink = enc
	}

	o := orchestrator.New(catalog, profile.NewState(opts.seed), nil, nil)
	if err := o.Init(opts.act, opts.run); err != nil {
		return err
	}
	// Earlier zones are replayed so unlocks and freshness history match a real run.
	for i := range opts.from {
		if err := o.LoadZone(i); err != nil {
			return err
		}
	}

	je := json.NewEncoder(sink)
	for i := opts.from; i <= opts.to; i++ {
		if err := o.LoadZone(i); err != nil {
			return err
		}
		if err := je.Encode(o.Zone()); err != nil {
			return fmt.Errorf("encoding zone %d: %w", i, err)
		}
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("closing zstd encoder: %w", err)
		}
	}
	return bw.Flush()
}

// readZones decodes a dump produced by dump.
func readZones(r io.Reader, compressed bool) ([]*zonegen.Zone, error) {
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	var zones []*zonegen.Zone
	jd := json.NewDecoder(r)
	for jd.More() {
		var z zonegen.Zone
		if err := jd.Decode(&z); err != nil {
			return nil, fmt.Errorf("decoding zone %d: %w", len(zones), err)
		}
		zones = append(zones, &z)
	}
	return zones, nil
}
