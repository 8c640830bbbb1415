package topic

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type ConfigCache struct {
	topicsDir string
	cache     map[string]*Config
	mu        sync.RWMutex
}

func NewConfigCache(topicsDir string) *ConfigCache {
	return &ConfigCache{
		topicsDir: topicsDir,
		cache:     make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.topicsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.topicsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		topicName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(topicName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "topic", topicName, "enabled", config.Settings.Enabled, "keywords", len(config.Keywords), "bill_ids", len(config.BillIDs))
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(topicName string) (*Config, error) {
	configFile := cc.getConfigFilePath(topicName)
	topicConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Set topic name from parameter
	topicConfig.Name = topicName

	if err := cc.validateConfig(topicConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	// Store in cache
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[topicConfig.Name] = topicConfig

	return topicConfig, nil
}

func (cc *ConfigCache) GetConfig(topicName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	topicConfig, ok := cc.cache[topicName]
	if !ok {
		return nil, fmt.Errorf("topic config with name '%s' not found", topicName)
	}

	return topicConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configs[k] = v
	}
	return configs
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var topicConfig Config
	if err := yaml.Unmarshal(data, &topicConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if topicConfig.Settings.SweepInterval == 0 {
		topicConfig.Settings.SweepInterval = 3600
	}
	if topicConfig.Settings.MaxMentions == 0 {
		topicConfig.Settings.MaxMentions = 50
	}

	return &topicConfig, nil
}

func (cc *ConfigCache) validateConfig(topicConfig *Config) error {
	if topicConfig == nil {
		return fmt.Errorf("topicConfig is nil")
	}

	if topicConfig.Name == "" {
		return fmt.Errorf("topic name is required")
	}

	if topicConfig.DisplayName == "" {
		topicConfig.DisplayName = topicConfig.Name
	}

	if topicConfig.State != "" && len(topicConfig.State) != 2 {
		return fmt.Errorf("state must be a two-letter jurisdiction code, got '%s'", topicConfig.State)
	}

	nonNegativeFields := map[string]int{
		"sweep interval": topicConfig.Settings.SweepInterval,
		"max mentions":   topicConfig.Settings.MaxMentions,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, keyword := range topicConfig.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("keyword at index %d is empty", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(topicName string) string {
	return filepath.Join(cc.topicsDir, topicName+".yml")
}
