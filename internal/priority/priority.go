// Package priority computes urgency scores for tasks and builds greedy
// schedules from them. Everything here is pure: the reference time is
// always injected, nothing reads a clock or touches storage.
package priority

import (
	"math"
	"sort"
	"time"

	"taskhub/internal/models"
)

// ScoredTask is a task annotated with its computed urgency score.
// Derived per request, never persisted.
type ScoredTask struct {
	models.Task
	Score float64 `json:"score"`
}

// TimeFactor grows with task age: 0 at creation, 0.5 after 24 hours,
// approaching 1 as the task gets older.
func TimeFactor(createdAt, now time.Time) float64 {
	hoursSinceCreation := now.Sub(createdAt).Hours()
	return 1 - math.Pow(2, -hoursSinceCreation/24)
}

// DueDateFactor grows as the deadline approaches: 0.5 at 24h out,
// 0.25 at 48h out, exactly 1 once overdue. No due date means no
// deadline urgency at all.
func DueDateFactor(dueDate *time.Time, now time.Time) float64 {
	if dueDate == nil {
		return 0
	}
	due := atMidnightUTC(*dueDate)
	hoursUntilDue := due.Sub(now).Hours()
	if hoursUntilDue <= 0 {
		return 1
	}
	return math.Pow(2, -hoursUntilDue/24)
}

// DurationFactor gives longer tasks a small boost, capped at +20% per
// 24 estimated hours. Missing or non-positive duration is neutral.
func DurationFactor(estimatedDuration *float64) float64 {
	if estimatedDuration == nil || *estimatedDuration <= 0 {
		return 1
	}
	return 1 + (*estimatedDuration/24)*0.2
}

// StatusFactor is a multiplicative gate on the score. Unrecognized
// statuses fall back to neutral rather than dropping the task.
func StatusFactor(status models.TaskStatus) float64 {
	switch status {
	case models.StatusPending:
		return 1.0
	case models.StatusInProgress:
		return 1.2
	case models.StatusBlocked:
		return 0.3
	case models.StatusCompleted:
		return 0.0
	}
	return 1.0
}

// Score combines the user-assigned base priority with the time, due
// date, duration and status factors:
//
//	score = base * (1 + time) * (1 + due) * status * duration
//
// Completed tasks always score 0 and therefore sort last.
func Score(task models.Task, now time.Time) float64 {
	basePriority := float64(task.Priority)
	timeFactor := TimeFactor(task.CreatedAt, now)
	dueDateFactor := DueDateFactor(task.DueDate, now)
	durationFactor := DurationFactor(task.EstimatedDuration)
	statusFactor := StatusFactor(task.Status)

	return basePriority * (1 + timeFactor) * (1 + dueDateFactor) * statusFactor * durationFactor
}

// SortByScore returns the tasks ordered most-urgent first. The sort is
// stable: equal scores keep their input order across repeated calls.
func SortByScore(tasks []models.Task, now time.Time) []ScoredTask {
	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		scored = append(scored, ScoredTask{Task: t, Score: Score(t, now)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func atMidnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
