package zonefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer stores rendered zones as db.{zone} files in Dir.
type Writer struct {
	Dir string
}

// FileName returns the output file name for zone.
func FileName(zone string) string {
	return "db." + zone
}

// Path returns the output path for zone.
func (w Writer) Path(zone string) string {
	return filepath.Join(w.Dir, FileName(zone))
}

// Write replaces the zone file atomically: content goes to a temp file in
// the same directory which is then renamed over the target.
func (w Writer) Write(zone string, content []byte) (string, error) {
	if err := checkZoneName(zone); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("zone %s: failed to create directory %s: %w", zone, w.Dir, err)
	}

	target := w.Path(zone)
	tmp, err := os.CreateTemp(w.Dir, "."+FileName(zone)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("zone %s: %w", zone, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("zone %s: failed to write %s: %w", zone, tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("zone %s: %w", zone, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("zone %s: %w", zone, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("zone %s: failed to replace %s: %w", zone, target, err)
	}
	return target, nil
}

// checkZoneName rejects names that would escape Dir.
func checkZoneName(zone string) error {
	if zone == "" || zone == "." || zone == ".." || strings.ContainsAny(zone, `/\`) {
		return fmt.Errorf("invalid zone name %q", zone)
	}
	return nil
}
