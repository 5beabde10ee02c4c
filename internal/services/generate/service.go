// Package generate runs the zone generation pipeline: it pulls prefixes and
// address overrides from an inventory source, folds them into per-zone PTR
// record sets and emits one zone file per zone.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"nathanbeddoewebdev/ptrgen/internal/domain"
	"nathanbeddoewebdev/ptrgen/internal/ptr"
	"nathanbeddoewebdev/ptrgen/internal/zonefile"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel address requests when Options leaves
// Concurrency unset.
const DefaultConcurrency = 4

// Options configures inventory collection.
type Options struct {
	// PTRDomain is appended to every generated name.
	PTRDomain string

	// MaxPrefixAddresses caps prefix size, see ptr.ExpandOptions.
	MaxPrefixAddresses int64

	// Concurrency bounds parallel ListAddresses calls.
	Concurrency int

	// Zones restricts generation to the named zones. Empty means all.
	Zones []string
}

// Service runs the pipeline against one inventory source.
type Service struct {
	source domain.Source
	logger zerolog.Logger
	opts   Options
}

// NewService creates a generate service.
func NewService(source domain.Source, logger zerolog.Logger, opts Options) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	zones := make([]string, 0, len(opts.Zones))
	for _, z := range opts.Zones {
		if z = ptr.NormalizeZone(z); z != "" {
			zones = append(zones, z)
		}
	}
	opts.Zones = zones
	return &Service{source: source, logger: logger, opts: opts}
}

// PrefixReport describes how one prefix contributed to its zone.
type PrefixReport struct {
	Prefix    domain.Prefix
	Zone      string
	Overrides int
	Overlay   ptr.OverlayResult
}

// Collection is the result of Collect.
type Collection struct {
	// Listed counts prefixes returned by the source.
	Listed int

	// Skipped holds prefixes that could not be expanded.
	Skipped []*ptr.SkipError

	// Prefixes holds the expanded prefixes in inventory order.
	Prefixes []PrefixReport

	Zones *ptr.Accumulator
}

// Collect lists prefixes, expands them, fetches their overrides
// concurrently and folds everything into an Accumulator in inventory
// order, so the last prefix listed wins on overlap.
func (s *Service) Collect(ctx context.Context) (*Collection, error) {
	prefixes, err := s.source.ListPrefixes(ctx)
	if err != nil {
		return nil, &StageError{Stage: StagePrefixes, Err: err}
	}
	s.logger.Info().Str("source", s.source.GetDisplayName()).Int("prefixes", len(prefixes)).Msg("Listed prefixes")

	col := &Collection{Listed: len(prefixes), Zones: ptr.NewAccumulator(s.opts.PTRDomain)}

	var expansions []*ptr.Expansion
	for _, p := range prefixes {
		exp, err := ptr.Expand(p, ptr.ExpandOptions{MaxAddresses: s.opts.MaxPrefixAddresses})
		if err != nil {
			var skip *ptr.SkipError
			if !errors.As(err, &skip) {
				return nil, err
			}
			s.logger.Warn().Str("prefix", p.CIDR).Str("id", p.ID).Err(skip.Err).Msg("Skipping prefix")
			col.Skipped = append(col.Skipped, skip)
			continue
		}
		if !s.wantZone(exp.Zone) {
			s.logger.Debug().Str("prefix", p.CIDR).Str("zone", exp.Zone).Msg("Zone not selected")
			continue
		}
		expansions = append(expansions, exp)
	}

	overrides, err := s.fetchOverrides(ctx, expansions)
	if err != nil {
		return nil, err
	}

	for i, exp := range expansions {
		res := col.Zones.Add(exp, overrides[i])
		s.logOverlay(exp, res)
		col.Prefixes = append(col.Prefixes, PrefixReport{
			Prefix:    exp.Source,
			Zone:      exp.Zone,
			Overrides: len(overrides[i]),
			Overlay:   res,
		})
	}

	return col, nil
}

// fetchOverrides fetches the overrides of every expansion with bounded
// parallelism. Results are stored by index so the fold stays in inventory
// order. The first failure cancels the remaining requests.
func (s *Service) fetchOverrides(ctx context.Context, expansions []*ptr.Expansion) ([][]domain.AddressOverride, error) {
	results := make([][]domain.AddressOverride, len(expansions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, exp := range expansions {
		g.Go(func() error {
			ov, err := s.source.ListAddresses(gctx, exp.Source)
			if err != nil {
				return &StageError{Stage: StageAddresses, Err: err}
			}
			s.logger.Debug().Str("prefix", exp.Source.CIDR).Int("addresses", len(ov)).Msg("Listed addresses")
			results[i] = ov
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) wantZone(zone string) bool {
	return len(s.opts.Zones) == 0 || slices.Contains(s.opts.Zones, zone)
}

func (s *Service) logOverlay(exp *ptr.Expansion, res ptr.OverlayResult) {
	for _, ig := range res.Ignored {
		s.logger.Warn().
			Str("prefix", exp.Source.CIDR).
			Str("address", ig.Override.Address).
			Str("dns_name", ig.Override.DNSName).
			Str("reason", string(ig.Reason)).
			Msg("Ignoring address override")
	}
	for _, name := range res.Suspicious {
		s.logger.Warn().Str("prefix", exp.Source.CIDR).Str("dns_name", name).Msg("Override is not a valid domain name")
	}
}

// Outcome is what happened to a zone during Emit.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeDryRun  Outcome = "dry-run"
)

// ZoneReport summarizes one emitted zone.
type ZoneReport struct {
	Zone     string
	Family   domain.Family
	Records  int
	Template string
	Path     string
	Outcome  Outcome
}

// EmitOptions configures Emit.
type EmitOptions struct {
	TemplateDir string
	OutDir      string
	Serial      string

	// DryRun prints rendered zones to DryRunOut instead of writing them and
	// skips the reload command.
	DryRun    bool
	DryRunOut io.Writer

	ReloadCmd  string
	HookStdout io.Writer
	HookStderr io.Writer
}

// Report is the result of Emit.
type Report struct {
	Zones   []ZoneReport
	HookRan bool
}

type rendered struct {
	report  ZoneReport
	content string
}

// Emit renders every zone of col, then writes them, then runs the reload
// command. All zones are rendered before the first write, so a missing
// template leaves the output directory untouched.
func (s *Service) Emit(ctx context.Context, col *Collection, opts EmitOptions) (*Report, error) {
	resolver := zonefile.Resolver{Dir: opts.TemplateDir}

	var out []rendered
	for _, zone := range col.Zones.Zones() {
		tplPath, tpl, err := resolver.Resolve(zone.Zone)
		if err != nil {
			return nil, &StageError{Stage: StageRender, Err: err}
		}
		content := zonefile.Render(tpl, zonefile.Data{
			Zone:    zone.Zone,
			Serial:  opts.Serial,
			Records: zone.RenderRecords(),
		})
		out = append(out, rendered{
			report: ZoneReport{
				Zone:     zone.Zone,
				Family:   zone.Family,
				Records:  zone.Len(),
				Template: tplPath,
			},
			content: content,
		})
	}

	report := &Report{}
	writer := zonefile.Writer{Dir: opts.OutDir}
	for _, r := range out {
		zr := r.report
		if opts.DryRun {
			if opts.DryRunOut != nil {
				fmt.Fprintf(opts.DryRunOut, "; ---- %s ----\n%s", zonefile.FileName(zr.Zone), r.content)
			}
			zr.Outcome = OutcomeDryRun
		} else {
			path, err := writer.Write(zr.Zone, []byte(r.content))
			if err != nil {
				return report, &StageError{Stage: StageWrite, Err: err}
			}
			zr.Path = path
			zr.Outcome = OutcomeWritten
			s.logger.Info().Str("zone", zr.Zone).Str("path", path).Int("records", zr.Records).Msg("Zone written")
		}
		report.Zones = append(report.Zones, zr)
	}

	if opts.DryRun || opts.ReloadCmd == "" {
		return report, nil
	}
	if len(report.Zones) == 0 {
		s.logger.Info().Msg("No zones written, not running reload command")
		return report, nil
	}

	s.logger.Info().Str("command", opts.ReloadCmd).Msg("Running reload command")
	if err := zonefile.RunHook(ctx, opts.ReloadCmd, opts.HookStdout, opts.HookStderr); err != nil {
		return report, &StageError{Stage: StageHook, Err: err}
	}
	report.HookRan = true
	return report, nil
}
