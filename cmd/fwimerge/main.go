// Command fwimerge merges partial fire weather records from NDJSON envelope
// files and prints one merged record per station, time and kind.
//
// Files are read in the order given. With the default arrival policy a later
// file wins every field it specifies, so list files in ascending trust order.
//
// Usage:
//
//	fwimerge --policy ranked --kind daily ensemble.ndjson observations.ndjson
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/fwi-merge-service/internal/domain"
	"github.com/couchcryptid/fwi-merge-service/internal/merge"
	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"
)

type options struct {
	policy        string
	kind          string
	station       string
	rejectInvalid bool
	mergedAt      string
	files         []string
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("fwimerge failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("fwimerge", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: fwimerge [flags] file.ndjson...")
		fs.PrintDefaults()
	}
	fs.StringVarP(&opts.policy, "policy", "p", string(merge.PolicyArrival), "merge policy: arrival or ranked")
	fs.StringVarP(&opts.kind, "kind", "k", "", "only output records of this kind (weather, hourly, daily)")
	fs.StringVarP(&opts.station, "station", "s", "", "only output records for this station")
	fs.BoolVar(&opts.rejectInvalid, "reject-invalid", false, "drop weather partials flagged as invalid data")
	fs.StringVar(&opts.mergedAt, "merged-at", "", "fixed merged_at timestamp (RFC 3339) for reproducible output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fs.Usage()
		return options{}, errors.New("at least one input file is required")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer, logger *slog.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	policy, err := merge.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}
	var kind domain.Kind
	if opts.kind != "" {
		if kind, err = domain.ParseKind(opts.kind); err != nil {
			return err
		}
	}
	if opts.mergedAt != "" {
		t, err := time.Parse(time.RFC3339, opts.mergedAt)
		if err != nil {
			return fmt.Errorf("invalid --merged-at: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
		defer domain.SetClock(nil)
	}

	m := &merger{
		store:         merge.NewStore(policy, 1<<20),
		kind:          kind,
		station:       opts.station,
		rejectInvalid: opts.rejectInvalid,
		seen:          make(map[string]domain.MergedRecord),
		logger:        logger,
	}
	for _, path := range opts.files {
		if err := m.mergeFile(path); err != nil {
			return err
		}
	}
	return m.write(stdout)
}

type merger struct {
	store         *merge.Store
	kind          domain.Kind
	station       string
	rejectInvalid bool
	seen          map[string]domain.MergedRecord
	logger        *slog.Logger
}

func (m *merger) mergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		env, err := domain.ParseEnvelope(sc.Bytes())
		if err != nil {
			m.logger.Warn("skipping line", "file", path, "line", line, "error", err)
			continue
		}
		if !m.wanted(env) {
			continue
		}
		merged, err := m.store.Apply(env)
		if err != nil {
			m.logger.Warn("skipping line", "file", path, "line", line, "error", err)
			continue
		}
		m.seen[merged.Key()] = merged
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func (m *merger) wanted(env domain.Envelope) bool {
	if m.kind != "" && env.Kind != m.kind {
		return false
	}
	if m.station != "" && env.Station != m.station {
		return false
	}
	if w, ok := env.Record.(domain.WeatherObservation); ok && m.rejectInvalid && w.InvalidData() {
		m.logger.Info("rejecting invalid weather", "key", env.Key())
		return false
	}
	return true
}

// write prints the merged records ordered by key.
func (m *merger) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, key := range slices.Sorted(maps.Keys(m.seen)) {
		if err := enc.Encode(m.seen[key]); err != nil {
			return err
		}
	}
	return nil
}
