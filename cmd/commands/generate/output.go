package generate

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	gensvc "nathanbeddoewebdev/ptrgen/internal/services/generate"
	"nathanbeddoewebdev/ptrgen/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type summary struct {
	source     string
	serial     string
	collection *gensvc.Collection
	report     *gensvc.Report
}

func (s summary) skippedLines() []string {
	lines := make([]string, 0, len(s.collection.Skipped))
	for _, sk := range s.collection.Skipped {
		lines = append(lines, fmt.Sprintf("%s: %v", sk.Prefix.CIDR, sk.Err))
	}
	return lines
}

func (s summary) ignoredCount() int {
	n := 0
	for _, p := range s.collection.Prefixes {
		n += len(p.Overlay.Ignored)
	}
	return n
}

// printTable prints a plain tabwriter summary for non-interactive output.
func (s summary) printTable(out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ZONE\tFAMILY\tRECORDS\tSTATUS\tPATH")
	fmt.Fprintln(w, "----\t------\t-------\t------\t----")
	for _, z := range s.report.Zones {
		path := z.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", z.Zone, z.Family, z.Records, z.Outcome, path)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d zone(s), serial %s, %d prefix(es) from %s",
		len(s.report.Zones), s.serial, len(s.collection.Prefixes), s.source)
	if n := len(s.collection.Skipped); n > 0 {
		fmt.Fprintf(out, ", %d skipped", n)
	}
	if n := s.ignoredCount(); n > 0 {
		fmt.Fprintf(out, ", %d override(s) ignored", n)
	}
	fmt.Fprintln(out)

	for _, line := range s.skippedLines() {
		fmt.Fprintf(out, "  skipped %s\n", line)
	}
	if s.report.HookRan {
		fmt.Fprintln(out, "Reload command completed.")
	}
}

// printStyled renders the summary with lipgloss for terminals.
func (s summary) printStyled(out io.Writer) {
	var rows []string
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TableHeader.Width(34).Render("ZONE"),
		styles.TableHeader.Width(8).Render("FAMILY"),
		styles.TableHeader.Width(9).Render("RECORDS"),
		styles.TableHeader.Render("STATUS"),
	)
	rows = append(rows, header)
	for _, z := range s.report.Zones {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			styles.TableCell.Width(34).Render(styles.AccentText.Render(z.Zone)),
			styles.TableCell.Width(8).Render(z.Family.String()),
			styles.TableCell.Width(9).Render(strconv.Itoa(z.Records)),
			styles.TableCell.Render(styles.StatusIndicator(string(z.Outcome))),
		))
	}

	title := styles.Title.Render(fmt.Sprintf("Generated %d zone(s) from %s", len(s.report.Zones), s.source))
	meta := []string{
		styles.KeyValue("Serial", s.serial),
		styles.KeyValue("Prefixes", strconv.Itoa(len(s.collection.Prefixes))),
	}
	if s.report.HookRan {
		meta = append(meta, styles.SuccessText.Render("Reload command completed"))
	}

	sections := []string{title, strings.Join(meta, "   "), "", strings.Join(rows, "\n")}
	if skipped := s.skippedLines(); len(skipped) > 0 {
		sections = append(sections, "", styles.WarningText.Render(fmt.Sprintf("Skipped %d prefix(es)", len(skipped))))
		for _, line := range skipped {
			sections = append(sections, styles.MutedText.Render("  "+line))
		}
	}
	if n := s.ignoredCount(); n > 0 {
		sections = append(sections, styles.WarningText.Render(fmt.Sprintf("Ignored %d override(s), see log for details", n)))
	}

	fmt.Fprintln(out, styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, sections...)))
}

type jsonZone struct {
	Zone     string `json:"zone"`
	Family   string `json:"family"`
	Records  int    `json:"records"`
	Template string `json:"template"`
	Path     string `json:"path,omitempty"`
	Outcome  string `json:"outcome"`
}

type jsonSkipped struct {
	Prefix string `json:"prefix"`
	Reason string `json:"reason"`
}

type jsonSummary struct {
	Source   string        `json:"source"`
	Serial   string        `json:"serial"`
	Prefixes int           `json:"prefixes"`
	Ignored  int           `json:"ignored_overrides"`
	Skipped  []jsonSkipped `json:"skipped"`
	Zones    []jsonZone    `json:"zones"`
	Reloaded bool          `json:"reloaded"`
}

// printJSON encodes the summary as indented JSON.
func (s summary) printJSON(out io.Writer) {
	js := jsonSummary{
		Source:   s.source,
		Serial:   s.serial,
		Prefixes: len(s.collection.Prefixes),
		Ignored:  s.ignoredCount(),
		Skipped:  []jsonSkipped{},
		Zones:    []jsonZone{},
		Reloaded: s.report.HookRan,
	}
	for _, sk := range s.collection.Skipped {
		js.Skipped = append(js.Skipped, jsonSkipped{Prefix: sk.Prefix.CIDR, Reason: sk.Err.Error()})
	}
	for _, z := range s.report.Zones {
		js.Zones = append(js.Zones, jsonZone{
			Zone:     z.Zone,
			Family:   z.Family.String(),
			Records:  z.Records,
			Template: z.Template,
			Path:     z.Path,
			Outcome:  string(z.Outcome),
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.Encode(js)
}
