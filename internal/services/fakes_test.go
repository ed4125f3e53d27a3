package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"taskhub/internal/models"
)

// in-memory TaskRepository for service tests
type fakeTaskRepo struct {
	tasks  map[int64]models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]models.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id, userID int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	cp := t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id, userID int64) error {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) ListDueForReminder(_ context.Context, limit int) ([]models.Task, error) {
	cutoff := time.Now().Add(24 * time.Hour)
	var out []models.Task
	for _, t := range r.tasks {
		if t.DueDate == nil || t.DueDate.After(cutoff) {
			continue
		}
		if t.Status == models.StatusCompleted || t.LastRemindedAt != nil {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) SetReminderFired(_ context.Context, id int64) error {
	t, ok := r.tasks[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	t.LastRemindedAt = &now
	r.tasks[id] = t
	return nil
}

// in-memory UserRepository for service tests
type fakeUserRepo struct {
	users  map[int64]models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	u, ok := r.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	u.Email = user.Email
	u.FullName = user.FullName
	u.Priority = user.Priority
	r.users[user.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) UpdateRefresh(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	u.RefreshRevoked = false
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) RotateRefresh(_ context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	for id, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == oldToken && !u.RefreshRevoked {
			u.RefreshToken = &newToken
			u.RefreshExpiresAt = &newExpiresAt
			r.users[id] = u
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateTelegramLink(_ context.Context, userID, chatID int64, enable bool) error {
	u, ok := r.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.TelegramChatID = chatID
	u.NotifyTelegram = enable
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) GetTelegramSettings(_ context.Context, userID int64) (int64, bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return 0, false, sql.ErrNoRows
	}
	return u.TelegramChatID, u.NotifyTelegram, nil
}

// fakeNotifier records every sent message.
type fakeNotifier struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	chatID int64
	text   string
}

func (n *fakeNotifier) Notify(chatID int64, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}
