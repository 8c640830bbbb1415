package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestGetPanicsBeforeLoad(t *testing.T) {
	defer func() {
		globalCfg = nil
		if recover() == nil {
			t.Error("Get() should panic before Load()")
		}
	}()

	globalCfg = nil
	Get()
}

func TestSetForTesting(t *testing.T) {
	defer SetForTesting(nil)

	SetForTesting(&Cfg{
		Port:              "8080",
		WorkerCount:       5,
		SchedulerInterval: 60,
		TopicsDir:         "./topics",
		DBPath:            "./pressradar.db",
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
	})

	cfg := Get()
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 60 {
		t.Errorf("Expected scheduler interval 60, got %d", cfg.SchedulerInterval)
	}
	if cfg.TopicsDir != "./topics" {
		t.Errorf("Expected topics dir './topics', got '%s'", cfg.TopicsDir)
	}
	if cfg.DBPath != "./pressradar.db" {
		t.Errorf("Expected DB path './pressradar.db', got '%s'", cfg.DBPath)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
