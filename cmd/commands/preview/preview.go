package preview

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/domain"
	"nathanbeddoewebdev/ptrgen/internal/ptr"
	"nathanbeddoewebdev/ptrgen/internal/util"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"
)

// NewCommand returns the "preview" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <cidr>",
		Short: "Show the PTR records a prefix would produce",
		Long: `Expand a prefix offline and print the reverse label and generated name
of every usable address. Nothing is fetched or written.

Examples:
  ptrgen preview 192.0.2.0/28 --label host --subdomain dc1 --ptr-domain example.net
  ptrgen preview 2001:db8::/124 --label srv --subdomain lab --arpa-zone 8.b.d.0.1.0.0.2.ip6.arpa`,
		Args:         cobra.ExactArgs(1),
		RunE:         runPreview,
		SilenceUsage: true,
	}

	cmd.Flags().String("label", "", "Host label placed before the address part (required)")
	cmd.Flags().String("subdomain", "", "Subdomain generated names live under (required)")
	cmd.Flags().String("ptr-domain", "", "Domain appended to generated names (default: configured ptr-domain)")
	cmd.Flags().String("arpa-zone", "", "ip6.arpa zone, required for IPv6 prefixes")
	cmd.Flags().Int("limit", 256, "Maximum number of records to print (0: all)")
	cmd.MarkFlagRequired("label")
	cmd.MarkFlagRequired("subdomain")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	label, _ := cmd.Flags().GetString("label")
	subdomain, _ := cmd.Flags().GetString("subdomain")
	ptrDomain, _ := cmd.Flags().GetString("ptr-domain")
	arpaZone, _ := cmd.Flags().GetString("arpa-zone")
	limit, _ := cmd.Flags().GetInt("limit")

	if err := errors.Join(
		util.ValidateHostname("label", label),
		util.ValidateHostname("subdomain", subdomain),
	); err != nil {
		return err
	}

	if ptrDomain == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		settings, err := config.Resolve(cfg, nil)
		if err != nil {
			return err
		}
		ptrDomain = settings.PTRDomain
	}
	if ptrDomain == "" {
		return &config.ValidationError{Missing: []string{"ptr-domain"}}
	}

	exp, err := ptr.Expand(domain.Prefix{
		CIDR:      args[0],
		Label:     label,
		Subdomain: subdomain,
		ArpaZone:  arpaZone,
	}, ptr.ExpandOptions{})
	if err != nil {
		return err
	}

	set := ptr.NewAccumulator(ptrDomain).Skeleton(exp)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Zone %s (%s), %s addresses, %d records\n\n", exp.Zone, exp.Family, exp.Size(), set.Len())

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tREVERSE LABEL\tTARGET")
	fmt.Fprintln(w, "-------\t-------------\t------")
	shown := 0
	for addr, name := range set.All() {
		if limit > 0 && shown >= limit {
			break
		}
		label, err := ptr.ReverseLabel(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", addr, label, dns.Fqdn(name))
		shown++
	}
	w.Flush()

	if rest := set.Len() - shown; rest > 0 {
		fmt.Fprintf(out, "\n... %d more (use --limit 0 to show all)\n", rest)
	}
	return nil
}
