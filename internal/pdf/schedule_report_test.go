package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
	"taskhub/internal/priority"
)

func TestGenerateSchedulePDF(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	dur := 3.0
	data := ScheduleData{
		Owner:       "Test User",
		WindowStart: start,
		WindowEnd:   start.Add(8 * time.Hour),
		Result: priority.ScheduleResult{
			Tasks: []priority.ScheduledTask{
				{
					Task:      models.Task{ID: 1, Title: "write report", EstimatedDuration: &dur},
					StartTime: start,
					EndTime:   start.Add(3 * time.Hour),
				},
			},
			TotalDuration:   3,
			UtilizationRate: 0.375,
		},
	}

	out, err := NewScheduleReport().GenerateSchedule(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 500)
}

func TestGenerateScheduleEmptyWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out, err := NewScheduleReport().GenerateSchedule(ScheduleData{
		WindowStart: start,
		WindowEnd:   start.Add(8 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
