package parser

import (
	"path/filepath"
	"strings"
)

// baseNames whose files map to the default profile without a suffix.
var defaultBaseNames = map[string]struct{}{
	"application": {},
	"config":      {},
}

// profileFromEnvName extracts the profile from a dotenv file name:
// ".env" maps to the default profile, ".env.<profile>" to that profile.
func profileFromEnvName(name string) string {
	base := filepath.Base(name)
	rest := strings.TrimPrefix(base, ".env")
	if rest == base {
		// "app.env" style: treat anything before .env as the base name.
		rest = ""
	}
	rest = strings.TrimPrefix(rest, ".")
	if rest == "" {
		return DefaultProfile
	}
	return rest
}

// profileFromFileName extracts the profile from names like
// "application-dev.json" or "config_prod.yaml". Bare "application" and
// "config" (and any name without a separator suffix) map to the default
// profile.
func profileFromFileName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if _, ok := defaultBaseNames[base]; ok {
		return DefaultProfile
	}

	idx := strings.LastIndexAny(base, "-_")
	if idx < 0 || idx == len(base)-1 {
		return DefaultProfile
	}
	return base[idx+1:]
}
