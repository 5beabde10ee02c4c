// Package zonefile turns finished PTR record sets into zone files: it
// locates templates, fills their placeholders, writes the results and runs
// the post-generation hook.
package zonefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTemplate is used for zones without a template of their own.
const DefaultTemplate = "zone-template.tpl"

// Template placeholders.
const (
	PlaceholderRecords = "{{ PTR_RECORDS }}"
	PlaceholderZone    = "{{ ZONE }}"
	PlaceholderSerial  = "{{ SERIAL }}"
)

// ErrTemplateNotFound is returned when neither a zone-specific template nor
// the default template exists.
var ErrTemplateNotFound = errors.New("zone template not found")

// Resolver locates zone templates in Dir. A zone uses {zone}.tpl when it
// exists and DefaultTemplate otherwise.
type Resolver struct {
	Dir string
}

// Candidates returns the paths Resolve tries for zone, in order.
func (r Resolver) Candidates(zone string) []string {
	return []string{
		filepath.Join(r.Dir, zone+".tpl"),
		filepath.Join(r.Dir, DefaultTemplate),
	}
}

// Resolve returns the path and content of the template for zone.
func (r Resolver) Resolve(zone string) (string, string, error) {
	candidates := r.Candidates(zone)
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return path, string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("zone %s: failed to read template %s: %w", zone, path, err)
		}
	}
	return "", "", fmt.Errorf("zone %s: %w (tried %s)", zone, ErrTemplateNotFound, strings.Join(candidates, ", "))
}

// Data fills a template.
type Data struct {
	Zone    string
	Serial  string
	Records string
}

// Render substitutes every placeholder in tpl. Unknown text is left as is.
func Render(tpl string, d Data) string {
	return strings.NewReplacer(
		PlaceholderRecords, d.Records,
		PlaceholderZone, d.Zone,
		PlaceholderSerial, d.Serial,
	).Replace(tpl)
}

// Serial formats a SOA serial as YYYYMMDDnn from the UTC date of t and the
// two-digit revision.
func Serial(t time.Time, revision int) (string, error) {
	if revision < 0 || revision > 99 {
		return "", fmt.Errorf("serial revision %d out of range 0-99", revision)
	}
	return fmt.Sprintf("%s%02d", t.UTC().Format("20060102"), revision), nil
}
