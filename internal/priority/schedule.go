package priority

import (
	"sort"
	"time"

	"taskhub/internal/models"
)

// ScheduledTask is a task placed into a concrete time slot.
type ScheduledTask struct {
	models.Task
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ScheduleResult is the outcome of one greedy scheduling pass.
// TotalDuration is in hours; UtilizationRate is TotalDuration over the
// window length, 0 when the window is empty or inverted.
type ScheduleResult struct {
	Tasks           []ScheduledTask `json:"tasks"`
	TotalDuration   float64         `json:"total_duration"`
	UtilizationRate float64         `json:"utilization_rate"`
}

// Schedule places tasks back-to-back into the [start, end) window.
//
// Only tasks due within the window's calendar dates are considered;
// completed tasks and tasks without a due date never get a slot.
// Candidates are walked in (priority, due date) order and placement
// stops entirely at the first task that would overflow the window.
// This is first-fit, not bin-packing: a long task can starve shorter
// ones behind it, and that is the intended behavior.
func Schedule(tasks []models.Task, start, end time.Time) ScheduleResult {
	windowStart := atMidnightUTC(start)
	windowEnd := atMidnightUTC(end)

	var candidates []models.Task
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == models.StatusCompleted {
			continue
		}
		due := atMidnightUTC(*t.DueDate)
		if due.Before(windowStart) || due.After(windowEnd) {
			continue
		}
		candidates = append(candidates, t)
	}

	// The scheduling path deliberately orders by the raw priority field
	// and due date, not by the computed score; the score orders
	// listings only.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		return candidates[i].DueDate.Before(*candidates[j].DueDate)
	})

	scheduled := make([]ScheduledTask, 0, len(candidates))
	currentTime := start
	totalDuration := 0.0

	for _, t := range candidates {
		if t.EstimatedDuration == nil || *t.EstimatedDuration <= 0 {
			continue
		}
		slotEnd := currentTime.Add(time.Duration(*t.EstimatedDuration * float64(time.Hour)))
		if slotEnd.After(end) {
			break
		}
		scheduled = append(scheduled, ScheduledTask{
			Task:      t,
			StartTime: currentTime,
			EndTime:   slotEnd,
		})
		currentTime = slotEnd
		totalDuration += *t.EstimatedDuration
	}

	windowHours := end.Sub(start).Hours()
	utilizationRate := 0.0
	if windowHours > 0 {
		utilizationRate = totalDuration / windowHours
	}

	return ScheduleResult{
		Tasks:           scheduled,
		TotalDuration:   totalDuration,
		UtilizationRate: utilizationRate,
	}
}
