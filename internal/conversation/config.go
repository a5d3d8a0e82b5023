package conversation

import (
	"time"

	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/models"
)

type Config struct {
	DefaultIndustry     string
	PhoneRegion         string
	GenericMinimumAge   time.Duration
	PersistenceTimeout  time.Duration
	NotificationTimeout time.Duration
	LedgerBackend       string
}

func DefaultConfig() *Config {
	return &Config{
		DefaultIndustry:     models.IndustryRealEstate,
		PhoneRegion:         "IN",
		GenericMinimumAge:   DefaultGenericMinimumAge,
		PersistenceTimeout:  5 * time.Second,
		NotificationTimeout: 10 * time.Second,
		LedgerBackend:       config.LedgerMemory,
	}
}

// LoadConfig maps the application config onto the service settings.
func LoadConfig(cfg *config.Config) *Config {
	out := DefaultConfig()
	if cfg.Industries.Default != "" {
		out.DefaultIndustry = cfg.Industries.Default
	}
	if cfg.Qualification.PhoneRegion != "" {
		out.PhoneRegion = cfg.Qualification.PhoneRegion
	}
	if cfg.Qualification.GenericMinAge > 0 {
		out.GenericMinimumAge = config.GetDuration(cfg.Qualification.GenericMinAge)
	}
	if cfg.Qualification.PersistenceTimeout > 0 {
		out.PersistenceTimeout = config.GetDuration(cfg.Qualification.PersistenceTimeout)
	}
	if cfg.Qualification.NotificationTimeout > 0 {
		out.NotificationTimeout = config.GetDuration(cfg.Qualification.NotificationTimeout)
	}
	if cfg.Storage.Ledger != "" {
		out.LedgerBackend = cfg.Storage.Ledger
	}
	return out
}
