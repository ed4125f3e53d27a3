package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskhub/internal/models"
	"taskhub/internal/repositories"
)

// Notifier pushes a message to a user's linked chat. Split out so the
// reminder service can be tested without a live bot.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// TelegramNotifier sends reminders through the Telegram Bot API.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Printf("[reminder] telegram bot authorized as @%s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Notify(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := n.bot.Send(msg)
	return err
}

// ReminderService periodically scans for tasks due within the next 24
// hours and notifies their owners once per task.
type ReminderService struct {
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
	notifier Notifier
	interval time.Duration
	batch    int
}

func NewReminderService(tasks repositories.TaskRepository, users repositories.UserRepository, notifier Notifier, interval time.Duration) *ReminderService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ReminderService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		interval: interval,
		batch:    100,
	}
}

// Run blocks until ctx is cancelled. One scan happens immediately on
// start, then on every tick.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[reminder] worker stopped")
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

func (s *ReminderService) scan(ctx context.Context) {
	due, err := s.tasks.ListDueForReminder(ctx, s.batch)
	if err != nil {
		log.Printf("[reminder][scan][err] %v", err)
		return
	}
	for _, task := range due {
		if err := s.remind(ctx, task); err != nil {
			log.Printf("[reminder][send][err] task=%d: %v", task.ID, err)
			continue
		}
		if err := s.tasks.SetReminderFired(ctx, task.ID); err != nil {
			log.Printf("[reminder][mark][err] task=%d: %v", task.ID, err)
		}
	}
}

func (s *ReminderService) remind(ctx context.Context, task models.Task) error {
	chatID, allow, err := s.users.GetTelegramSettings(ctx, task.UserID)
	if err != nil {
		return err
	}
	if !allow || chatID == 0 {
		// no linked chat: mark fired anyway so the task isn't rescanned
		return nil
	}
	return s.notifier.Notify(chatID, formatReminder(task))
}

func formatReminder(t models.Task) string {
	due := "—"
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02")
	}
	return "⏰ Task due soon\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b>\n" +
		"• Due: <code>" + due + "</code>\n" +
		"• Status: <code>" + string(t.Status) + "</code>"
}
