package classifylead

import (
	"time"

	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/models"
)

type Config struct {
	Timeout         time.Duration
	DefaultIndustry string
}

func LoadConfig(cfg *config.Config) *Config {
	out := &Config{
		Timeout:         10 * time.Second,
		DefaultIndustry: models.IndustryRealEstate,
	}
	if cfg == nil {
		return out
	}
	if w := config.GetWorkerConfig(cfg, TaskType); w.Timeout > 0 {
		out.Timeout = config.GetDuration(w.Timeout)
	}
	if cfg.Industries.Default != "" {
		out.DefaultIndustry = cfg.Industries.Default
	}
	return out
}
