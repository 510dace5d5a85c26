package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ImportPolicy controls the bulk member import pipeline. The active/inactive
// labels are the localized spreadsheet values operators type into the
// account-enabled column; they must match exactly after trimming.
type ImportPolicy struct {
	ActiveLabel   string        `mapstructure:"activeLabel"`
	InactiveLabel string        `mapstructure:"inactiveLabel"`
	MaxRows       int           `mapstructure:"maxRows"`
	SessionTTL    time.Duration `mapstructure:"sessionTTL"`
	TemplateSheet string        `mapstructure:"templateSheet"`
}

func DefaultImportPolicy() ImportPolicy {
	return ImportPolicy{
		ActiveLabel:   "Active",
		InactiveLabel: "Inactive",
		MaxRows:       2000,
		SessionTTL:    30 * time.Minute,
		TemplateSheet: "Members",
	}
}

// ImportPolicyHolder keeps the current policy behind an atomic snapshot so
// reloads never block readers mid-validation.
type ImportPolicyHolder struct {
	current atomic.Value // holds ImportPolicy
}

func NewImportPolicyHolder() (*ImportPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("importpolicy")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/leavehub/config")
	v.AddConfigPath("/etc/leavehub")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEAVEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultImportPolicy()
	v.SetDefault("import.activeLabel", defaults.ActiveLabel)
	v.SetDefault("import.inactiveLabel", defaults.InactiveLabel)
	v.SetDefault("import.maxRows", defaults.MaxRows)
	v.SetDefault("import.sessionTTL", defaults.SessionTTL)
	v.SetDefault("import.templateSheet", defaults.TemplateSheet)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ImportPolicy
	if err := v.UnmarshalKey("import", &cfg); err != nil {
		return nil, err
	}
	if err := validateImportPolicy(cfg); err != nil {
		return nil, err
	}

	holder := &ImportPolicyHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ImportPolicy
		if err := v.UnmarshalKey("import", &updated); err != nil {
			log.Printf("[import-policy] reload failed: %v", err)
			return
		}
		if err := validateImportPolicy(updated); err != nil {
			log.Printf("[import-policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[import-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ImportPolicyHolder) Get() ImportPolicy {
	return h.current.Load().(ImportPolicy)
}

// NewStaticImportPolicyHolder returns a holder pinned to the given policy.
// Intended for tests.
func NewStaticImportPolicyHolder(policy ImportPolicy) *ImportPolicyHolder {
	holder := &ImportPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validateImportPolicy(cfg ImportPolicy) error {
	if strings.TrimSpace(cfg.ActiveLabel) == "" || strings.TrimSpace(cfg.InactiveLabel) == "" {
		return errors.New("import.activeLabel and import.inactiveLabel cannot be empty")
	}
	if strings.EqualFold(cfg.ActiveLabel, cfg.InactiveLabel) {
		return errors.New("import.activeLabel and import.inactiveLabel must differ")
	}
	if cfg.MaxRows <= 0 {
		return errors.New("import.maxRows must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("import.sessionTTL must be positive")
	}
	return nil
}
