package services

import (
	"context"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/priority"
	"taskhub/internal/repositories"
)

// TaskService defines the interface for task-related business logic.
// Listings come back scored and sorted by the priority engine; the
// schedule path runs the greedy scheduler over the same snapshot. The
// reference time is injected by the caller so both stay deterministic.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Task, error)
	ListByPriority(ctx context.Context, userID int64, limit, offset int, now time.Time) ([]priority.ScoredTask, error)
	Update(ctx context.Context, id, userID int64, updateData *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id, userID int64) error

	Schedule(ctx context.Context, userID int64, start, end time.Time) (priority.ScheduleResult, error)
}

type taskService struct {
	repo repositories.TaskRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id, userID int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *taskService) ListByPriority(ctx context.Context, userID int64, limit, offset int, now time.Time) ([]priority.ScoredTask, error) {
	filter := models.TaskFilter{UserID: &userID, Limit: limit, Offset: offset}
	tasks, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return priority.SortByScore(tasks, now), nil
}

func (s *taskService) Update(ctx context.Context, id, userID int64, updateData *models.Task) (*models.Task, error) {
	existingTask, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if existingTask == nil {
		return nil, nil
	}

	existingTask.CategoryID = updateData.CategoryID
	existingTask.Title = updateData.Title
	existingTask.Description = updateData.Description
	existingTask.Status = updateData.Status
	existingTask.Priority = updateData.Priority
	existingTask.DueDate = updateData.DueDate
	existingTask.EstimatedDuration = updateData.EstimatedDuration

	existingTask.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existingTask); err != nil {
		return nil, err
	}
	return existingTask, nil
}

func (s *taskService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *taskService) Schedule(ctx context.Context, userID int64, start, end time.Time) (priority.ScheduleResult, error) {
	filter := models.TaskFilter{UserID: &userID}
	tasks, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return priority.ScheduleResult{}, err
	}
	return priority.Schedule(tasks, start, end), nil
}
