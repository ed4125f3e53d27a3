package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/pdf"
	"taskhub/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	users   services.UserService
	reports pdf.ScheduleGenerator
}

func NewTaskHandler(service services.TaskService, users services.UserService, reports pdf.ScheduleGenerator) *TaskHandler {
	return &TaskHandler{service: service, users: users, reports: reports}
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title             string            `json:"title" binding:"required"`
		Description       string            `json:"description"`
		CategoryID        *int64            `json:"category_id"`
		Priority          int               `json:"priority"` // 1..5; 0 falls back to the profile default
		Status            models.TaskStatus `json:"status"`
		DueDate           string            `json:"due_date"` // YYYY-MM-DD
		EstimatedDuration *float64          `json:"estimated_duration"` // hours
	}

	userID := getUserID(c)
	log.Printf("[task][create] call by userID=%d", userID)

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if !req.Status.IsValid() {
		log.Printf("[task][create][deny] invalid status=%q", req.Status)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if req.Priority == 0 {
		// unset: use the profile's default base priority
		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			log.Printf("[task][create][err] load user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
			return
		}
		req.Priority = user.Priority
	}
	if req.Priority < 1 || req.Priority > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be between 1 and 5"})
		return
	}
	if req.EstimatedDuration != nil && *req.EstimatedDuration < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estimated_duration must be non-negative"})
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		t, err := parseDate(req.DueDate)
		if err != nil {
			log.Printf("[task][create][err] invalid due_date=%q: %v", req.DueDate, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (YYYY-MM-DD)"})
			return
		}
		due = &t
	}

	task := &models.Task{
		UserID:            userID,
		CategoryID:        req.CategoryID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		DueDate:           due,
		EstimatedDuration: req.EstimatedDuration,
	}

	createdTask, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	log.Printf("[task][create][ok] id=%d title=%q", createdTask.ID, createdTask.Title)
	c.JSON(http.StatusCreated, createdTask)
}

// @Summary      List tasks ordered by urgency
// @Description  Returns the user's tasks with computed scores, most urgent first
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "offset"
// @Param        limit  query  int  false  "page size (default 100)"
// @Success      200  {array}  priority.ScoredTask
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID := getUserID(c)

	limit := 100
	offset := 0
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		} else {
			log.Printf("[task][list][warn] bad limit=%q", v)
		}
	}
	if v, ok := c.GetQuery("skip"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		} else {
			log.Printf("[task][list][warn] bad skip=%q", v)
		}
	}

	// the clock is read here, at the boundary; scoring itself is pure
	tasks, err := h.service.ListByPriority(c.Request.Context(), userID, limit, offset, time.Now().UTC())
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	log.Printf("[task][list][ok] userID=%d count=%d", userID, len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "task id"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		log.Printf("[task][getByID][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "task id"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		log.Printf("[task][update][err] get current id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var req struct {
		Title             *string            `json:"title"`
		Description       *string            `json:"description"`
		CategoryID        *int64             `json:"category_id"`
		Priority          *int               `json:"priority"`
		Status            *models.TaskStatus `json:"status"`
		DueDate           *string            `json:"due_date"` // YYYY-MM-DD, "" clears
		EstimatedDuration *float64           `json:"estimated_duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := *current

	if req.Title != nil {
		update.Title = *req.Title
	}
	if req.Description != nil {
		update.Description = *req.Description
	}
	if req.CategoryID != nil {
		update.CategoryID = req.CategoryID
	}
	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be between 1 and 5"})
			return
		}
		update.Priority = *req.Priority
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			log.Printf("[task][update][deny] invalid status=%q", *req.Status)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		update.Status = *req.Status
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			update.DueDate = nil
		} else {
			t, err := parseDate(*req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (YYYY-MM-DD)"})
				return
			}
			update.DueDate = &t
		}
	}
	if req.EstimatedDuration != nil {
		if *req.EstimatedDuration < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "estimated_duration must be non-negative"})
			return
		}
		update.EstimatedDuration = req.EstimatedDuration
	}

	updatedTask, err := h.service.Update(c.Request.Context(), id, userID, &update)
	if err != nil {
		log.Printf("[task][update][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updatedTask)
}

// @Summary      Delete a task
// @Tags         Tasks
// @Security     BearerAuth
// @Param        id  path  int  true  "task id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// @Summary      Build a schedule for a date window
// @Description  Greedily places tasks due in the window back-to-back, most important first
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query  string  true  "window start (RFC3339 or YYYY-MM-DD)"
// @Param        end_date    query  string  true  "window end (RFC3339 or YYYY-MM-DD)"
// @Success      200  {object}  priority.ScheduleResult
// @Failure      400  {object}  map[string]string
// @Router       /tasks/schedule [get]
func (h *TaskHandler) Schedule(c *gin.Context) {
	userID := getUserID(c)

	start, end, err := h.scheduleWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Schedule(c.Request.Context(), userID, start, end)
	if err != nil {
		log.Printf("[task][schedule][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build schedule"})
		return
	}
	log.Printf("[task][schedule][ok] userID=%d placed=%d utilization=%.3f",
		userID, len(result.Tasks), result.UtilizationRate)
	c.JSON(http.StatusOK, result)
}

// @Summary      Download the schedule as PDF
// @Tags         Tasks
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        start_date  query  string  true  "window start (RFC3339 or YYYY-MM-DD)"
// @Param        end_date    query  string  true  "window end (RFC3339 or YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Router       /tasks/schedule/pdf [get]
func (h *TaskHandler) SchedulePDF(c *gin.Context) {
	userID := getUserID(c)

	start, end, err := h.scheduleWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Schedule(c.Request.Context(), userID, start, end)
	if err != nil {
		log.Printf("[task][schedule-pdf][err] userID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build schedule"})
		return
	}

	owner := ""
	if user, err := h.users.GetByID(c.Request.Context(), userID); err == nil && user != nil {
		owner = user.FullName
	}

	data, err := h.reports.GenerateSchedule(pdf.ScheduleData{
		Owner:       owner,
		WindowStart: start,
		WindowEnd:   end,
		Result:      result,
	})
	if err != nil {
		log.Printf("[task][schedule-pdf][err] render: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf"})
		return
	}

	filename := fmt.Sprintf("schedule_%s.pdf", start.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *TaskHandler) scheduleWindow(c *gin.Context) (time.Time, time.Time, error) {
	startStr, _ := c.GetQuery("start_date")
	endStr, _ := c.GetQuery("end_date")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}
	start, err := parseDateTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date")
	}
	end, err := parseDateTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date")
	}
	return start, end, nil
}
