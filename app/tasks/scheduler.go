package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressradar/pressradar/app/cfg"
	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/sweep"
	"github.com/pressradar/pressradar/app/topic"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	topicRepo    database.TopicRepository
	configCache  *topic.ConfigCache
	orchestrator *sweep.Orchestrator
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface
}

func NewScheduler(configCache *topic.ConfigCache, topicRepo database.TopicRepository,
	orchestrator *sweep.Orchestrator) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		topicRepo:    topicRepo,
		configCache:  configCache,
		orchestrator: orchestrator,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:  cfg.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	topicConfigs := s.configCache.GetConfigs()
	if len(topicConfigs) == 0 {
		slog.Debug("No topic configurations found")
		return
	}

	slog.Debug("Processing topic configurations", "count", len(topicConfigs))

	for _, topicConfig := range topicConfigs {
		syncTask := NewSyncTopicConfigTask(topicConfig.Name, topicConfig, s.topicRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncTopicConfigTask", "topic", topicConfig.Name, "error", err)
			continue
		}

		if !topicConfig.Settings.Enabled {
			slog.Debug("Topic disabled, skipping SweepTopicTask", "topic", topicConfig.Name)
			continue
		}

		sweepTask := NewSweepTopicTask(topicConfig.Name, topicConfig, s.orchestrator, s.topicRepo)
		if err := s.EnqueueTask(sweepTask); err != nil {
			slog.Warn("Failed to enqueue SweepTopicTask", "topic", topicConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	topicConfigs := s.configCache.GetEnabledConfigs()
	if len(topicConfigs) == 0 {
		slog.Debug("No enabled topic configurations found")
		return
	}

	slog.Debug("Processing enabled topic configurations for task scheduling", "count", len(topicConfigs))

	for _, topicConfig := range topicConfigs {
		topicRow, err := s.topicRepo.GetTopic(topicConfig.Name)
		if err != nil {
			slog.Warn("Failed to get topic from database, skipping", "topic", topicConfig.Name, "error", err)
			continue
		}
		if topicRow == nil {
			slog.Warn("Topic not found in database, skipping", "topic", topicConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if topicRow.NextSweepAt != nil && topicRow.NextSweepAt.After(now) {
			slog.Debug("Topic not due for sweep yet", "topic", topicConfig.Name, "next_sweep_at", topicRow.NextSweepAt)
			continue
		}

		sweepTask := NewSweepTopicTask(topicConfig.Name, topicConfig, s.orchestrator, s.topicRepo)
		if err := s.EnqueueTask(sweepTask); err != nil {
			slog.Warn("Failed to enqueue SweepTopicTask", "topic", topicConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "topic", task.GetTopicName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// The retry goroutine joins the wait group so Stop cannot
			// close the task queue while a re-enqueue is still pending.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
