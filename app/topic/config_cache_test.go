package topic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
display_name: "Solar Checkoff"
state: "CA"

keywords:
  - "solar checkoff"
  - "solar energy fee"

bill_ids:
  - "AB-123"

settings:
  enabled: true
  sweep_interval: 1800
  max_mentions: 25
`

	err := os.WriteFile(filepath.Join(tempDir, "solar.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 topicConfig, got %d", configCache.GetConfigCount())
	}

	topicConfig, err := configCache.GetConfig("solar")
	if err != nil {
		t.Fatal(err)
	}

	if topicConfig.Name != "solar" {
		t.Errorf("Expected name 'solar', got '%s'", topicConfig.Name)
	}
	if topicConfig.DisplayName != "Solar Checkoff" {
		t.Errorf("Expected display name 'Solar Checkoff', got '%s'", topicConfig.DisplayName)
	}
	if topicConfig.State != "CA" {
		t.Errorf("Expected state 'CA', got '%s'", topicConfig.State)
	}
	if len(topicConfig.Keywords) != 2 {
		t.Errorf("Expected 2 keywords, got %d", len(topicConfig.Keywords))
	}
	if topicConfig.Settings.SweepInterval != 1800 {
		t.Errorf("Expected sweep interval 1800, got %d", topicConfig.Settings.SweepInterval)
	}
	if topicConfig.Settings.MaxMentions != 25 {
		t.Errorf("Expected max mentions 25, got %d", topicConfig.Settings.MaxMentions)
	}
	if !topicConfig.HasSearchableTerms() {
		t.Error("Topic with keywords should have searchable terms")
	}
}

func TestConfigCacheLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
keywords:
  - "pesticide rule"
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "pesticide.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	topicConfig, err := configCache.LoadConfig("pesticide")
	if err != nil {
		t.Fatal(err)
	}

	if topicConfig.Settings.SweepInterval != 3600 {
		t.Errorf("Expected default sweep interval 3600, got %d", topicConfig.Settings.SweepInterval)
	}
	if topicConfig.Settings.MaxMentions != 50 {
		t.Errorf("Expected default max mentions 50, got %d", topicConfig.Settings.MaxMentions)
	}
	if topicConfig.DisplayName != "pesticide" {
		t.Errorf("Expected display name to default to topic name, got '%s'", topicConfig.DisplayName)
	}
}

func TestConfigCacheInvalidState(t *testing.T) {
	tempDir := t.TempDir()

	content := `
keywords:
  - "water rights"
state: "California"
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "water.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	_, err = configCache.LoadConfig("water")
	if err == nil {
		t.Fatal("Expected error for non two-letter state code")
	}
	if !strings.Contains(err.Error(), "two-letter") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestConfigWithoutSearchableTerms(t *testing.T) {
	tempDir := t.TempDir()

	// No keywords and no bill ids is a valid config; the sweep skips it.
	content := `
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "empty.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	topicConfig, err := configCache.LoadConfig("empty")
	if err != nil {
		t.Fatal(err)
	}

	if topicConfig.HasSearchableTerms() {
		t.Error("Topic without keywords or bill ids should not have searchable terms")
	}
}
