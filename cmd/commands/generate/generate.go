package generate

import (
	"fmt"
	"os"
	"time"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/inventory/providers"
	"nathanbeddoewebdev/ptrgen/internal/ptr"
	"nathanbeddoewebdev/ptrgen/internal/services/auth"
	gensvc "nathanbeddoewebdev/ptrgen/internal/services/generate"
	"nathanbeddoewebdev/ptrgen/internal/zonefile"

	"github.com/charmbracelet/huh/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// now and newStore are swapped in tests.
var (
	now      = time.Now
	newStore = auth.DefaultStore
)

// NewCommand returns the "generate" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate reverse DNS zone files from the inventory",
		Long: `Fetch prefixes and addresses from the inventory, synthesize a PTR record
for every usable address, and write one zone file (db.<zone>) per reverse
zone. Explicit DNS names from the inventory override generated ones.

Each zone is rendered from <template-dir>/<zone>.tpl, or from
<template-dir>/zone-template.tpl when no zone-specific template exists.
Templates may use {{ ZONE }}, {{ SERIAL }} and {{ PTR_RECORDS }}.

After all zones are written the reload command, if any, is run through sh -c.

Exit status: 1/2 listing prefixes failed/unparsable, 3/4 listing addresses
failed/unparsable, 5 render, 6 write, 64 configuration, 100 reload command.

Examples:
  ptrgen generate
  ptrgen generate --dry-run --zone 2.0.192.in-addr.arpa
  ptrgen generate --provider file --out-dir ./zones`,
		Args:         cobra.NoArgs,
		RunE:         runGenerate,
		SilenceUsage: true,
	}

	cmd.Flags().String("provider", "", "Inventory provider to use (overrides config)")
	cmd.Flags().String("out-dir", "", "Directory to write zone files to")
	cmd.Flags().String("template-dir", "", "Directory holding zone templates (default: out-dir)")
	cmd.Flags().String("ptr-domain", "", "Domain appended to generated names")
	cmd.Flags().String("reload-cmd", "", "Command run after all zones are written")
	cmd.Flags().Bool("dry-run", false, "Print rendered zones to stdout instead of writing them")
	cmd.Flags().StringSlice("zone", nil, "Only generate the named zone (repeatable)")
	cmd.Flags().Int("serial-revision", 1, "Two-digit revision appended to the YYYYMMDD serial")
	cmd.Flags().Int("concurrency", gensvc.DefaultConcurrency, "Parallel address requests")
	cmd.Flags().Int64("max-prefix-addresses", ptr.DefaultMaxAddresses, "Skip prefixes larger than this (negative: no limit)")
	cmd.Flags().StringP("output", "o", "table", "Summary format: table or json")

	return cmd
}

// flagOverrides maps string flags onto Settings fields.
var flagOverrides = map[string]func(s *config.Settings, v string){
	"provider":     func(s *config.Settings, v string) { s.Provider = v },
	"out-dir":      func(s *config.Settings, v string) { s.OutDir = v },
	"template-dir": func(s *config.Settings, v string) { s.TemplateDir = v },
	"ptr-domain":   func(s *config.Settings, v string) { s.PTRDomain = v },
	"reload-cmd":   func(s *config.Settings, v string) { s.ReloadCmd = v },
}

func configError(err error) error {
	return &gensvc.StageError{Stage: gensvc.StageConfig, Err: err}
}

// loadSettings merges config file, environment and flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}
	settings, err := config.Resolve(cfg, nil)
	if err != nil {
		return config.Settings{}, err
	}
	for name, apply := range flagOverrides {
		if f := cmd.Flag(name); f != nil && f.Changed {
			apply(&settings, f.Value.String())
		}
	}
	return settings, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	zones, _ := cmd.Flags().GetStringSlice("zone")
	revision, _ := cmd.Flags().GetInt("serial-revision")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	maxAddrs, _ := cmd.Flags().GetInt64("max-prefix-addresses")
	output, _ := cmd.Flags().GetString("output")

	if output != "table" && output != "json" {
		return configError(fmt.Errorf("unknown output format %q (use table or json)", output))
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return configError(err)
	}
	if err := settings.Validate(!dryRun); err != nil {
		return configError(err)
	}
	serial, err := zonefile.Serial(now(), revision)
	if err != nil {
		return configError(err)
	}

	source, err := providers.Get(settings.Provider, settings, newStore())
	if err != nil {
		return configError(err)
	}

	svc := gensvc.NewService(source, *logger, gensvc.Options{
		PTRDomain:          settings.PTRDomain,
		MaxPrefixAddresses: maxAddrs,
		Concurrency:        concurrency,
		Zones:              zones,
	})

	interactive := !dryRun && output == "table" && term.IsTerminal(int(os.Stdout.Fd()))

	var col *gensvc.Collection
	if interactive {
		accessible := os.Getenv("ACCESSIBLE") != ""
		var collectErr error
		spinErr := spinner.New().
			Title(fmt.Sprintf("Reading %s inventory...", source.GetDisplayName())).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				col, collectErr = svc.Collect(ctx)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
		err = collectErr
	} else {
		col, err = svc.Collect(ctx)
	}
	if err != nil {
		return err
	}

	report, emitErr := svc.Emit(ctx, col, gensvc.EmitOptions{
		TemplateDir: settings.Templates(),
		OutDir:      settings.OutDir,
		Serial:      serial,
		DryRun:      dryRun,
		DryRunOut:   cmd.OutOrStdout(),
		ReloadCmd:   settings.ReloadCmd,
		HookStdout:  cmd.ErrOrStderr(),
		HookStderr:  cmd.ErrOrStderr(),
	})
	if report == nil {
		return emitErr
	}

	summaryOut := cmd.OutOrStdout()
	if dryRun {
		summaryOut = cmd.ErrOrStderr()
	}
	s := summary{source: source.GetDisplayName(), serial: serial, collection: col, report: report}
	switch {
	case output == "json":
		s.printJSON(summaryOut)
	case interactive:
		s.printStyled(summaryOut)
	default:
		s.printTable(summaryOut)
	}

	return emitErr
}
