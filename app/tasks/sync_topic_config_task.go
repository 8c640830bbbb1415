package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/topic"
)

type SyncTopicConfigTask struct {
	Task
	TopicConfig *topic.Config
	topicRepo   database.TopicRepository
}

func NewSyncTopicConfigTask(topicName string, topicConfig *topic.Config, topicRepo database.TopicRepository) *SyncTopicConfigTask {
	return &SyncTopicConfigTask{
		Task:        NewTask(TaskTypeSyncTopicConfig, topicName),
		TopicConfig: topicConfig,
		topicRepo:   topicRepo,
	}
}

func (t *SyncTopicConfigTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.topicRepo.UpsertTopic(
		t.TopicConfig.Name,
		t.TopicConfig.DisplayName,
		t.TopicConfig.State,
		t.TopicConfig.Keywords,
		t.TopicConfig.BillIDs,
		t.TopicConfig.Settings.Enabled)
	if err != nil {
		slog.Error("Task failed", "type", "SyncTopicConfig", "topic", t.TopicName, "error", err)
		return fmt.Errorf("failed to sync topic config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncTopicConfig",
		"topic", t.TopicName,
		"duration", t.GetDuration())

	return nil
}
