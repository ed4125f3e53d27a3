package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Get own profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := getUserID(c)
	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[user][me][err] id=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Update own profile
// @Description  Updates name, email, default priority and the Telegram reminder link
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := getUserID(c)

	var req struct {
		Email          *string `json:"email"`
		FullName       *string `json:"full_name"`
		Priority       *int    `json:"priority"`
		TelegramChatID *int64  `json:"telegram_chat_id"`
		NotifyTelegram *bool   `json:"notify_telegram"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[user][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[user][update][err] get id=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be between 1 and 5"})
			return
		}
		user.Priority = *req.Priority
	}

	if err := h.service.UpdateProfile(c.Request.Context(), user); err != nil {
		log.Printf("[user][update][err] save id=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	if req.TelegramChatID != nil || req.NotifyTelegram != nil {
		chatID := user.TelegramChatID
		notify := user.NotifyTelegram
		if req.TelegramChatID != nil {
			chatID = *req.TelegramChatID
		}
		if req.NotifyTelegram != nil {
			notify = *req.NotifyTelegram
		}
		if err := h.service.UpdateTelegramLink(c.Request.Context(), userID, chatID, notify); err != nil {
			log.Printf("[user][update][err] telegram link id=%d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update telegram link"})
			return
		}
		user.TelegramChatID = chatID
		user.NotifyTelegram = notify
	}

	log.Printf("[user][update][ok] id=%d", userID)
	c.JSON(http.StatusOK, user)
}
