package config

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "ptr-domain").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Env is the environment variable that overrides the stored value.
	Env string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "provider",
		Description: "Inventory provider used when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.Provider },
		Set:         setString(func(cfg *Config, v string) { cfg.Provider = v }),
	},
	{
		Name:        "netbox-url",
		Description: "NetBox API base URL, e.g. https://netbox.example.net/api",
		Env:         EnvNetBoxURL,
		Get:         func(cfg *Config) string { return cfg.NetBoxURL },
		Set:         setString(func(cfg *Config, v string) { cfg.NetBoxURL = v }),
	},
	{
		Name:        "ptr-domain",
		Description: "Domain appended to every generated PTR name",
		Env:         EnvPTRDomain,
		Get:         func(cfg *Config) string { return cfg.PTRDomain },
		Set:         setString(func(cfg *Config, v string) { cfg.PTRDomain = v }),
	},
	{
		Name:        "out-dir",
		Description: "Directory zone files are written to",
		Env:         EnvOutDir,
		Get:         func(cfg *Config) string { return cfg.OutDir },
		Set:         setString(func(cfg *Config, v string) { cfg.OutDir = v }),
	},
	{
		Name:        "template-dir",
		Description: "Directory holding zone templates (defaults to out-dir)",
		Env:         EnvTemplateDir,
		Get:         func(cfg *Config) string { return cfg.TemplateDir },
		Set:         setString(func(cfg *Config, v string) { cfg.TemplateDir = v }),
	},
	{
		Name:        "reload-cmd",
		Description: "Shell command run after all zones are written",
		Env:         EnvReloadCmd,
		Get:         func(cfg *Config) string { return cfg.ReloadCmd },
		Set:         setString(func(cfg *Config, v string) { cfg.ReloadCmd = v }),
	},
	{
		Name:        "ignore-tls-verification",
		Description: "Skip TLS certificate verification for the NetBox API (true/false)",
		Env:         EnvIgnoreTLS,
		Get: func(cfg *Config) string {
			if !cfg.IgnoreTLSVerification {
				return ""
			}
			return "true"
		},
		Set: func(cfg *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			cfg.IgnoreTLSVerification = b
			return nil
		},
	},
	{
		Name:        "inventory-file",
		Description: "JSON inventory read by the file provider",
		Env:         EnvInventoryFile,
		Get:         func(cfg *Config) string { return cfg.InventoryFile },
		Set:         setString(func(cfg *Config, v string) { cfg.InventoryFile = v }),
	},
}

func setString(apply func(cfg *Config, v string)) func(cfg *Config, v string) error {
	return func(cfg *Config, v string) error {
		apply(cfg, strings.TrimSpace(v))
		return nil
	}
}

func parseBool(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q (use true or false)", v)
	}
	return b, nil
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s", maxLen, k.Name, k.Description)
		if k.Env != "" {
			fmt.Fprintf(&b, " [$%s]", k.Env)
		}
		b.WriteString("\n")
	}
	return b.String()
}
