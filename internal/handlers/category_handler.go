package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type CategoryHandler struct {
	service services.CategoryService
}

func NewCategoryHandler(service services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// @Summary      List categories
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "offset"
// @Param        limit  query  int  false  "page size (default 100)"
// @Success      200  {array}  models.Category
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := getUserID(c)

	limit := 100
	offset := 0
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v, ok := c.GetQuery("skip"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	categories, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("[category][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary      Create a category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Category
// @Failure      400  {object}  map[string]string
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[category][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{
		UserID:      getUserID(c),
		Name:        req.Name,
		Description: req.Description,
	}
	created, err := h.service.Create(c.Request.Context(), category)
	if err != nil {
		log.Printf("[category][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	log.Printf("[category][create][ok] id=%d name=%q", created.ID, created.Name)
	c.JSON(http.StatusCreated, created)
}

// @Summary      Get a category
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "category id"
// @Success      200  {object}  models.Category
// @Failure      404  {object}  map[string]string
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	category, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		log.Printf("[category][getByID][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// @Summary      Update a category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "category id"
// @Success      200  {object}  models.Category
// @Failure      404  {object}  map[string]string
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		log.Printf("[category][update][err] get current id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get category"})
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	update := *current
	if req.Name != nil {
		update.Name = *req.Name
	}
	if req.Description != nil {
		update.Description = *req.Description
	}

	updated, err := h.service.Update(c.Request.Context(), id, userID, &update)
	if err != nil {
		log.Printf("[category][update][err] save id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		return
	}
	log.Printf("[category][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
}

// @Summary      Delete a category
// @Tags         Categories
// @Security     BearerAuth
// @Param        id  path  int  true  "category id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := getUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		log.Printf("[category][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}
	log.Printf("[category][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}
