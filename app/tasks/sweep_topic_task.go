package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/sweep"
	"github.com/pressradar/pressradar/app/topic"
)

type SweepTopicTask struct {
	Task
	TopicConfig  *topic.Config
	orchestrator *sweep.Orchestrator
	topicRepo    database.TopicRepository
}

func NewSweepTopicTask(topicName string, topicConfig *topic.Config, orchestrator *sweep.Orchestrator, topicRepo database.TopicRepository) *SweepTopicTask {
	return &SweepTopicTask{
		Task:         NewTask(TaskTypeSweepTopic, topicName),
		TopicConfig:  topicConfig,
		orchestrator: orchestrator,
		topicRepo:    topicRepo,
	}
}

func (t *SweepTopicTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.TopicConfig.Settings.Enabled {
		slog.Debug("Topic disabled, skipping", "topic", t.TopicName)
		return nil
	}

	report := t.orchestrator.Sweep(ctx, t.TopicConfig)

	if err := t.storeReport(report); err != nil {
		return err
	}

	if report.State == sweep.StateFailed {
		if !report.Retryable {
			slog.Warn("Sweep failed and cannot heal without a configuration change, not retrying",
				"topic", t.TopicName, "error", report.Err)
			return nil
		}
		return fmt.Errorf("sweep failed: %s", report.Err)
	}

	slog.Info("Task completed",
		"type", "SweepTopic",
		"topic", t.TopicName,
		"duration", t.GetDuration(),
		"searched", report.Searched,
		"skipped", report.Skipped,
		"new", report.NewMentions)

	return nil
}

// storeReport persists the report and schedules the next sweep. A failed
// sweep is rescheduled the same way so a broken topic cannot spin hot.
func (t *SweepTopicTask) storeReport(report *sweep.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode sweep report: %w", err)
	}

	interval := t.TopicConfig.Settings.SweepInterval
	if interval <= 0 {
		interval = 3600
	}
	nextSweep := time.Now().UTC().Add(time.Duration(interval) * time.Second)

	if err := t.topicRepo.UpdateSweepStatus(t.TopicName, string(reportJSON), nextSweep); err != nil {
		return fmt.Errorf("failed to store sweep report: %w", err)
	}

	return nil
}
