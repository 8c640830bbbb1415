package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/sweep"
	"github.com/pressradar/pressradar/app/tasks"
	"github.com/pressradar/pressradar/app/topic"
)

const defaultJournalistLimit = 100

func NewHandler(configCache *topic.ConfigCache, topicRepo database.TopicRepository,
	mentionRepo database.MentionRepository, journalistRepo database.JournalistRepository,
	orchestrator *sweep.Orchestrator, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		topicRepo:      topicRepo,
		mentionRepo:    mentionRepo,
		journalistRepo: journalistRepo,
		configCache:    configCache,
		orchestrator:   orchestrator,
		scheduler:      scheduler,
	}
}

func (h *Handler) GetTopicMentions(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	topicConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Topic configuration not found", "topic", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	topicRow, err := h.topicRepo.GetTopic(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_topic", "topic", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if topicRow == nil {
		slog.Error("Topic not found in database", "topic", name)
		c.Status(http.StatusNotFound)
		return
	}

	limit := topicConfig.Settings.MaxMentions
	if requested := c.Query("limit"); requested != "" {
		if parsed, err := strconv.Atoi(requested); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	mentions, err := h.mentionRepo.GetVisibleMentions(topicRow.ID, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_mentions", "topic", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Topic-Name", name)
	c.Header("X-Mention-Count", strconv.Itoa(len(mentions)))

	c.JSON(http.StatusOK, gin.H{
		"topic":    name,
		"mentions": mentionList(mentions),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if topicCount, err := h.topicRepo.GetTopicCount(); err == nil {
		health["topics"] = topicCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	topicStats := make([]map[string]interface{}, 0, len(configs))
	for _, topicConfig := range configs {
		stats := map[string]interface{}{
			"name":    topicConfig.Name,
			"enabled": topicConfig.Settings.Enabled,
		}

		topicRow, err := h.topicRepo.GetTopic(topicConfig.Name)
		if err != nil || topicRow == nil {
			topicStats = append(topicStats, stats)
			continue
		}

		total, clustered, scored, err := h.mentionRepo.GetMentionStats(topicRow.ID)
		if err == nil {
			stats["mentions"] = total
			stats["clustered"] = clustered
			stats["scored"] = scored
		}
		if topicRow.LastSweptAt != nil {
			stats["last_swept_at"] = topicRow.LastSweptAt.Format(time.RFC3339)
		}

		topicStats = append(topicStats, stats)
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"topics":    topicStats,
	})
}

func (h *Handler) ListTopics(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	topics := make([]map[string]interface{}, 0, len(configs))
	for _, topicConfig := range configs {
		topicInfo := map[string]interface{}{
			"name":           topicConfig.Name,
			"display_name":   topicConfig.DisplayName,
			"state":          topicConfig.State,
			"keywords":       len(topicConfig.Keywords),
			"bill_ids":       len(topicConfig.BillIDs),
			"enabled":        topicConfig.Settings.Enabled,
			"sweep_interval": (time.Duration(topicConfig.Settings.SweepInterval) * time.Second).String(),
			"max_mentions":   topicConfig.Settings.MaxMentions,
		}

		topicRow, err := h.topicRepo.GetTopic(topicConfig.Name)
		if err == nil && topicRow != nil {
			if topicRow.LastSweptAt != nil {
				topicInfo["last_swept_at"] = topicRow.LastSweptAt.Format(time.RFC3339)
			}
			if topicRow.NextSweepAt != nil {
				topicInfo["next_sweep_at"] = topicRow.NextSweepAt.Format(time.RFC3339)
			}
		}

		topics = append(topics, topicInfo)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(topics),
		"topics": topics,
	})
}

func (h *Handler) GetTopicDetails(c *gin.Context) {
	name := c.Param("name")

	topicConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	topicRow, err := h.topicRepo.GetTopic(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_topic", "topic", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if topicRow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not registered"})
		return
	}

	details := gin.H{
		"name":         topicConfig.Name,
		"display_name": topicConfig.DisplayName,
		"state":        topicConfig.State,
		"keywords":     topicConfig.Keywords,
		"bill_ids":     topicConfig.BillIDs,
		"enabled":      topicConfig.Settings.Enabled,
	}

	if topicRow.LastSweptAt != nil {
		details["last_swept_at"] = topicRow.LastSweptAt.Format(time.RFC3339)
	}
	if topicRow.NextSweepAt != nil {
		details["next_sweep_at"] = topicRow.NextSweepAt.Format(time.RFC3339)
	}
	if topicRow.LastReport != "" {
		var report sweep.Report
		if err := json.Unmarshal([]byte(topicRow.LastReport), &report); err == nil {
			details["last_report"] = report
		}
	}

	c.JSON(http.StatusOK, details)
}

// TriggerSweep enqueues an immediate sweep for the topic, ahead of its
// schedule. The sweep itself still runs on the worker pool.
func (h *Handler) TriggerSweep(c *gin.Context) {
	name := c.Param("name")

	topicConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		return
	}

	if !topicConfig.Settings.Enabled {
		c.JSON(http.StatusConflict, gin.H{"error": "Topic is disabled"})
		return
	}

	task := tasks.NewSweepTopicTask(name, topicConfig, h.orchestrator, h.topicRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue sweep", "topic", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue sweep"})
		return
	}

	slog.Info("Sweep triggered via API", "topic", name)
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Sweep enqueued",
		"topic":   name,
		"task_id": task.GetID(),
	})
}

func (h *Handler) ListJournalists(c *gin.Context) {
	limit := defaultJournalistLimit
	if requested := c.Query("limit"); requested != "" {
		if parsed, err := strconv.Atoi(requested); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	journalists, err := h.journalistRepo.List(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_journalists", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	list := make([]map[string]interface{}, 0, len(journalists))
	for _, journalist := range journalists {
		info := map[string]interface{}{
			"id":            journalist.ID,
			"name":          journalist.Name,
			"outlet":        journalist.Outlet,
			"article_count": journalist.ArticleCount,
			"beats":         journalist.Beats,
		}
		if journalist.ScoredCount > 0 {
			info["avg_sentiment"] = journalist.AvgSentiment
		}
		if journalist.Email != "" {
			info["email"] = journalist.Email
		}
		if journalist.Twitter != "" {
			info["twitter"] = journalist.Twitter
		}
		if journalist.LastArticleAt != nil {
			info["last_article_at"] = journalist.LastArticleAt.Format(time.RFC3339)
		}
		list = append(list, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(list),
		"journalists": list,
	})
}

func mentionList(mentions []database.Mention) []map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(mentions))
	for _, mention := range mentions {
		info := map[string]interface{}{
			"url":             mention.URL,
			"title":           mention.Title,
			"outlet":          mention.Outlet,
			"excerpt":         mention.Excerpt,
			"sentiment":       mention.Sentiment,
			"first_for_story": mention.FirstSeenForStory,
			"discovered_at":   mention.DiscoveredAt.Format(time.RFC3339),
			"published_at":    mention.PublishedAt.Format(time.RFC3339),
		}
		if mention.StoryClusterID != nil {
			info["story_cluster_id"] = *mention.StoryClusterID
		}
		list = append(list, info)
	}
	return list
}
