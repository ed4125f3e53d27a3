package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskhub/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// refresh helpers
	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)

	// Telegram helpers
	UpdateTelegramLink(ctx context.Context, userID, chatID int64, enable bool) error
	GetTelegramSettings(ctx context.Context, userID int64) (chatID int64, notify bool, err error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, full_name, password_hash, priority,
       telegram_chat_id, notify_telegram,
       refresh_token, refresh_expires_at, refresh_revoked,
       created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var (
		tgChatID sql.NullInt64
		tgNotify sql.NullBool
		rt       sql.NullString
		rte      sql.NullTime
		rr       sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Priority,
		&tgChatID, &tgNotify,
		&rt, &rte, &rr,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tgChatID.Valid {
		u.TelegramChatID = tgChatID.Int64
	}
	if tgNotify.Valid {
		u.NotifyTelegram = tgNotify.Bool
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (
			email, full_name, password_hash, priority,
			telegram_chat_id, notify_telegram,
			refresh_token, refresh_expires_at, refresh_revoked,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,0,TRUE,NULL,NULL,FALSE,NOW(),NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, q,
		user.Email, user.FullName, user.PasswordHash, user.Priority,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	const q = `
		UPDATE users
		SET email=$1, full_name=$2, priority=$3, updated_at=NOW()
		WHERE id=$4
	`
	_, err := r.db.ExecContext(ctx, q, user.Email, user.FullName, user.Priority, user.ID)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`,
		passwordHash, userID)
	return err
}

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE, updated_at=NOW()
		WHERE id=$3
	`
	_, err := r.db.ExecContext(ctx, q, token, expiresAt, userID)
	return err
}

func (r *userRepository) RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, updated_at=NOW()
		WHERE refresh_token=$3 AND refresh_revoked=FALSE
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, newToken, newExpiresAt, oldToken))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateTelegramLink(ctx context.Context, userID, chatID int64, enable bool) error {
	const q = `
		UPDATE users
		SET telegram_chat_id=$1, notify_telegram=$2, updated_at=NOW()
		WHERE id=$3
	`
	_, err := r.db.ExecContext(ctx, q, chatID, enable, userID)
	return err
}

func (r *userRepository) GetTelegramSettings(ctx context.Context, userID int64) (int64, bool, error) {
	const q = `SELECT COALESCE(telegram_chat_id,0), COALESCE(notify_telegram,TRUE) FROM users WHERE id=$1`
	var chatID int64
	var notify bool
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&chatID, &notify); err != nil {
		return 0, false, err
	}
	return chatID, notify, nil
}
