package taxrate

import (
	"sort"
	"time"
)

// Table is an ordered set of rate configs, oldest effective date first.
type Table struct {
	configs []Config
}

// NewTable validates every config and rejects duplicate versions. The input
// slice is copied; the table is immutable afterwards.
func NewTable(configs []Config) (*Table, error) {
	if len(configs) == 0 {
		return nil, ErrEmptyTable
	}

	sorted := make([]Config, len(configs))
	copy(sorted, configs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})

	seen := make(map[string]struct{}, len(sorted))
	for _, cfg := range sorted {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[cfg.Version]; ok {
			return nil, ErrDuplicateVersion
		}
		seen[cfg.Version] = struct{}{}
	}

	return &Table{configs: sorted}, nil
}

// ForDate returns the config in force at t: the latest entry whose
// effective date is not after t.
func (t *Table) ForDate(at time.Time) (Config, error) {
	var found *Config
	for i := range t.configs {
		if t.configs[i].EffectiveDate.After(at) {
			break
		}
		found = &t.configs[i]
	}
	if found == nil {
		return Config{}, ErrNoApplicableRates
	}
	return *found, nil
}

// ForVersion returns the config with the given version identifier.
func (t *Table) ForVersion(version string) (Config, error) {
	for _, cfg := range t.configs {
		if cfg.Version == version {
			return cfg, nil
		}
	}
	return Config{}, ErrNoApplicableRates
}

// Current returns the config in force now.
func (t *Table) Current() Config {
	return t.configs[len(t.configs)-1]
}

// Versions lists version identifiers, oldest first.
func (t *Table) Versions() []string {
	out := make([]string, 0, len(t.configs))
	for _, cfg := range t.configs {
		out = append(out, cfg.Version)
	}
	return out
}
