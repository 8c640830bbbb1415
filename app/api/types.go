package api

import (
	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/sweep"
	"github.com/pressradar/pressradar/app/tasks"
	"github.com/pressradar/pressradar/app/topic"
)

type Handler struct {
	topicRepo      database.TopicRepository
	mentionRepo    database.MentionRepository
	journalistRepo database.JournalistRepository
	configCache    *topic.ConfigCache
	orchestrator   *sweep.Orchestrator
	scheduler      tasks.TaskSchedulerInterface
}
