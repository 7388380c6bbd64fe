package taxrate

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rateEntry mirrors one element of the `rates:` list in taxrates.yml.
// Rates are strings so the file round-trips exactly into decimals.
type rateEntry struct {
	Version                      string `mapstructure:"version"`
	EffectiveDate                string `mapstructure:"effectiveDate"`
	CITStandardRate              string `mapstructure:"citStandardRate"`
	SmallBusinessReliefThreshold string `mapstructure:"smallBusinessReliefThreshold"`
	QFZPRate                     string `mapstructure:"qfzpRate"`
	QFZPEligibleIncomeCap        string `mapstructure:"qfzpEligibleIncomeCap"`
	VATStandardRate              string `mapstructure:"vatStandardRate"`
}

// Holder owns the active rate table. A missing taxrates.yml falls back to
// the compiled-in default table; an invalid file is fatal at startup and
// ignored on hot reload (the previous table stays active).
type Holder struct {
	current atomic.Value // holds *Table
	log     *zap.Logger
}

func NewHolder(log *zap.Logger) (*Holder, error) {
	v := viper.New()

	v.SetConfigName("taxrates")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/mizan/config")
	v.AddConfigPath("/etc/mizan")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MIZAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &Holder{log: log}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		table, err := NewTable([]Config{DefaultConfig()})
		if err != nil {
			return nil, err
		}
		holder.current.Store(table)
		log.Info("taxrates.yml not found, using built-in rate table",
			zap.Strings("versions", table.Versions()))
		return holder, nil
	}

	table, err := tableFromViper(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(table)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := tableFromViper(v)
		if err != nil {
			log.Warn("invalid tax rate table ignored on reload",
				zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("tax rate table reloaded",
			zap.String("file", e.Name), zap.Strings("versions", updated.Versions()))
	})

	return holder, nil
}

// Table returns the active rate table.
func (h *Holder) Table() *Table {
	return h.current.Load().(*Table)
}

func tableFromViper(v *viper.Viper) (*Table, error) {
	var entries []rateEntry
	if err := v.UnmarshalKey("rates", &entries); err != nil {
		return nil, err
	}

	configs := make([]Config, 0, len(entries))
	for _, e := range entries {
		cfg, err := e.toConfig()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return NewTable(configs)
}

func (e rateEntry) toConfig() (Config, error) {
	effective, err := time.Parse("2006-01-02", e.EffectiveDate)
	if err != nil {
		return Config{}, fmt.Errorf("rate version %q: %w", e.Version, ErrMissingEffective)
	}

	cfg := Config{Version: e.Version, EffectiveDate: effective.UTC()}

	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{e.CITStandardRate, &cfg.CITStandardRate},
		{e.SmallBusinessReliefThreshold, &cfg.SmallBusinessReliefThreshold},
		{e.QFZPRate, &cfg.QFZPRate},
		{e.QFZPEligibleIncomeCap, &cfg.QFZPEligibleIncomeCap},
		{e.VATStandardRate, &cfg.VATStandardRate},
	}
	for _, f := range fields {
		parsed, err := decimal.NewFromString(strings.TrimSpace(f.raw))
		if err != nil {
			return Config{}, fmt.Errorf("rate version %q: %w", e.Version, ErrInvalidRate)
		}
		*f.dest = parsed
	}

	return cfg, nil
}
