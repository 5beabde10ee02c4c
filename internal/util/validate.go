package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validNameChars matches only alphanumeric characters, hyphens, and periods.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)

// ValidateHostname checks that a PTR naming component conforms to RFC 1123
// hostname rules: only a-z, A-Z, 0-9, hyphens and periods; no label longer
// than 63 octets; no label starting or ending with a hyphen; no empty
// labels. field names the value in error messages.
func ValidateHostname(field, name string) error {
	if name == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if len(name) > 253 {
		return fmt.Errorf("%s must be at most 253 characters, got %d", field, len(name))
	}
	if !validNameChars.MatchString(name) {
		return fmt.Errorf("%s %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", field, name)
	}

	for _, label := range strings.Split(name, ".") {
		switch {
		case label == "":
			return fmt.Errorf("%s %q contains an empty label", field, name)
		case len(label) > 63:
			return fmt.Errorf("%s label %q is longer than 63 characters", field, label)
		case label[0] == '-' || label[len(label)-1] == '-':
			return fmt.Errorf("%s label %q must not start or end with a hyphen", field, label)
		}
	}

	return nil
}
