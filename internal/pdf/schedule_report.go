package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskhub/internal/priority"
)

// ScheduleGenerator renders a schedule result as a PDF (interface so
// handlers can be tested with a stub).
type ScheduleGenerator interface {
	GenerateSchedule(data ScheduleData) ([]byte, error)
}

// ScheduleReport is the gofpdf-backed implementation.
type ScheduleReport struct{}

type ScheduleData struct {
	Owner       string
	WindowStart time.Time
	WindowEnd   time.Time
	Result      priority.ScheduleResult
}

func NewScheduleReport() *ScheduleReport {
	return &ScheduleReport{}
}

func (g *ScheduleReport) GenerateSchedule(data ScheduleData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task schedule", false)
	pdf.SetAuthor("TaskHub", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "TASK SCHEDULE", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	sub := fmt.Sprintf("%s  —  %s",
		data.WindowStart.Format("2006-01-02 15:04"),
		data.WindowEnd.Format("2006-01-02 15:04"),
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	if data.Owner != "" {
		pdf.CellFormat(0, 6, "Prepared for "+data.Owner, "", 1, "C", false, 0, "")
	}
	g.hr(pdf)

	// table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 8, "Time slot", "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 8, "Task", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Hours", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, slot := range data.Result.Tasks {
		timeRange := fmt.Sprintf("%s – %s",
			slot.StartTime.Format("Jan 2 15:04"),
			slot.EndTime.Format("15:04"),
		)
		hours := 0.0
		if slot.EstimatedDuration != nil {
			hours = *slot.EstimatedDuration
		}
		pdf.CellFormat(50, 7, timeRange, "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 7, slot.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.1f", hours), "1", 1, "R", false, 0, "")
	}
	if len(data.Result.Tasks) == 0 {
		pdf.CellFormat(170, 7, "No tasks could be placed in this window.", "1", 1, "C", false, 0, "")
	}

	g.hr(pdf)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total scheduled: %.1f h", data.Result.TotalDuration), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Window utilization: %.1f%%", data.Result.UtilizationRate*100), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render schedule pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ScheduleReport) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(x, y, 190, y)
	pdf.Ln(4)
}
