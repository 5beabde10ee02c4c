package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables read by Resolve. The unprefixed names are the ones
// existing NetBox PTR deployments already export.
const (
	EnvProvider      = "PTRGEN_PROVIDER"
	EnvNetBoxURL     = "NETBOX_API_URI"
	EnvNetBoxToken   = "NETBOX_API_KEY"
	EnvIgnoreTLS     = "IGNORE_TLS_VERIFICATION"
	EnvPTRDomain     = "PTR_DOMAIN"
	EnvOutDir        = "OUT_DIRECTORY"
	EnvReloadCmd     = "RELOAD_DNS_SERVER_CMD"
	EnvTemplateDir   = "PTRGEN_TEMPLATE_DIR"
	EnvInventoryFile = "PTRGEN_INVENTORY_FILE"
)

// DefaultProvider is used when neither the config file, the environment nor
// a flag names an inventory provider.
const DefaultProvider = "netbox"

// Settings is the effective configuration for one run: the stored Config
// with environment overrides applied. Command flags are applied by the
// caller on top.
type Settings struct {
	Provider              string
	NetBoxURL             string
	PTRDomain             string
	OutDir                string
	TemplateDir           string
	ReloadCmd             string
	IgnoreTLSVerification bool
	InventoryFile         string

	// NetBoxToken comes only from the environment. Stored tokens live in
	// the OS keychain, see internal/services/auth.
	NetBoxToken string
}

// Resolve layers environment variables over cfg. getenv may be nil, in
// which case os.Getenv is used.
func Resolve(cfg *Config, getenv func(string) string) (Settings, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	merged := Config{}
	if cfg != nil {
		merged = *cfg
	}

	if v := strings.TrimSpace(getenv(EnvProvider)); v != "" {
		merged.Provider = v
	}
	for _, k := range Keys {
		if k.Env == "" {
			continue
		}
		v := getenv(k.Env)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if err := k.Set(&merged, v); err != nil {
			return Settings{}, fmt.Errorf("config: %s: %w", k.Env, err)
		}
	}

	s := Settings{
		Provider:              strings.ToLower(strings.TrimSpace(merged.Provider)),
		NetBoxURL:             merged.NetBoxURL,
		PTRDomain:             strings.TrimSuffix(merged.PTRDomain, "."),
		OutDir:                merged.OutDir,
		TemplateDir:           merged.TemplateDir,
		ReloadCmd:             merged.ReloadCmd,
		IgnoreTLSVerification: merged.IgnoreTLSVerification,
		InventoryFile:         merged.InventoryFile,
		NetBoxToken:           strings.TrimSpace(getenv(EnvNetBoxToken)),
	}
	if s.Provider == "" {
		s.Provider = DefaultProvider
	}
	return s, nil
}

// Templates returns the template directory, falling back to OutDir.
func (s Settings) Templates() string {
	if s.TemplateDir != "" {
		return s.TemplateDir
	}
	return s.OutDir
}

// Validate reports missing required settings. Output settings are only
// checked when requireOutput is set.
func (s Settings) Validate(requireOutput bool) error {
	var missing []string
	if s.PTRDomain == "" {
		missing = append(missing, "ptr-domain")
	}
	if requireOutput && s.OutDir == "" {
		missing = append(missing, "out-dir")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// ValidationError lists configuration keys that have no value.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		parts[i] = name
		if spec := Lookup(name); spec != nil && spec.Env != "" {
			parts[i] = fmt.Sprintf("%s ($%s)", name, spec.Env)
		}
	}
	return "missing required settings: " + strings.Join(parts, ", ")
}
