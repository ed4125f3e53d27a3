package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
)

func ptrF(v float64) *float64 { return &v }

func dueIn(d time.Duration) *time.Time {
	t := time.Now().UTC().Add(d)
	return &t
}

func TestTaskServiceCreateDefaults(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo())

	created, err := svc.Create(context.Background(), &models.Task{
		UserID:   1,
		Title:    "write report",
		Priority: 3,
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestTaskServiceListByPriorityOrdersByScore(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)
	ctx := context.Background()

	// same base priority, different due dates: the overdue one must win
	_, err := svc.Create(ctx, &models.Task{
		UserID: 1, Title: "far away", Priority: 3, DueDate: dueIn(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Task{
		UserID: 1, Title: "overdue", Priority: 3, DueDate: dueIn(-48 * time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Task{
		UserID: 2, Title: "someone else's", Priority: 5, DueDate: dueIn(-48 * time.Hour),
	})
	require.NoError(t, err)

	scored, err := svc.ListByPriority(ctx, 1, 100, 0, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, scored, 2)

	assert.Equal(t, "overdue", scored[0].Title)
	assert.Equal(t, "far away", scored[1].Title)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestTaskServiceUpdateMissingTask(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo())

	got, err := svc.Update(context.Background(), 999, 1, &models.Task{Title: "x"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskServiceUpdatePersistsFields(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Task{UserID: 1, Title: "draft", Priority: 2})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, 1, &models.Task{
		Title:    "final",
		Status:   models.StatusInProgress,
		Priority: 5,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, 5, updated.Priority)

	stored, err := svc.GetByID(ctx, created.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "final", stored.Title)
}

func TestTaskServiceScheduleWindow(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	due := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, &models.Task{
		UserID: 1, Title: "in window", Priority: 1,
		DueDate: &due, EstimatedDuration: ptrF(3),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Task{
		UserID: 1, Title: "out of window", Priority: 1,
		DueDate: &outside, EstimatedDuration: ptrF(2),
	})
	require.NoError(t, err)

	result, err := svc.Schedule(ctx, 1, start, end)
	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "in window", result.Tasks[0].Title)
	assert.Equal(t, start, result.Tasks[0].StartTime)
	assert.InDelta(t, 3.0, result.TotalDuration, 1e-9)
	assert.InDelta(t, 3.0/8.0, result.UtilizationRate, 1e-9)
}
