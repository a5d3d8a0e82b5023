package industry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/common/validation"
	"lead-qualifier/internal/models"
)

//go:embed schema.json
var schemaJSON string

var configSchema = validation.MustCompile(schemaJSON)

// LoadDir reads every *.json file in dir. The file name is the id unless the
// document sets one. A file that fails the schema aborts the load.
func LoadDir(dir string, log logger.Logger) ([]models.IndustryConfig, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list industry configs: %w", err)
	}
	sort.Strings(paths)

	configs := make([]models.IndustryConfig, 0, len(paths))
	for _, path := range paths {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		log.Info("loaded industry configuration", map[string]interface{}{
			"industry": cfg.ID,
			"file":     filepath.Base(path),
		})
		configs = append(configs, cfg)
	}
	return configs, nil
}

func LoadFile(path string) (models.IndustryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.IndustryConfig{}, fmt.Errorf("read industry config %s: %w", path, err)
	}

	result, err := configSchema.ValidateBytes(data)
	if err != nil {
		return models.IndustryConfig{}, fmt.Errorf("industry config %s: %w", path, err)
	}
	if !result.Valid {
		return models.IndustryConfig{}, fmt.Errorf("industry config %s is invalid: %s", path, result.Summary())
	}

	var cfg models.IndustryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.IndustryConfig{}, fmt.Errorf("decode industry config %s: %w", path, err)
	}
	if cfg.ID == "" {
		cfg.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

// Load builds a registry from the defaults overlaid with the files in dir. An
// empty or missing dir yields just the defaults.
func Load(dir string, log logger.Logger) (*Registry, error) {
	configs := Defaults()
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			loaded, err := LoadDir(dir, log)
			if err != nil {
				return nil, err
			}
			configs = append(configs, loaded...)
		} else {
			log.Warn("industry config directory not found, using built-in industries", map[string]interface{}{
				"dir": dir,
			})
		}
	}
	return NewRegistry(configs...), nil
}
