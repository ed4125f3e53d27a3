package repositories

import (
	"context"
	"database/sql"

	"taskhub/internal/models"
)

type CategoryRepository interface {
	Store(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id, userID int64) (*models.Category, error)
	FindAll(ctx context.Context, userID int64, limit, offset int) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id, userID int64) error
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Store(ctx context.Context, category *models.Category) error {
	const q = `
		INSERT INTO categories (user_id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		category.UserID, category.Name, category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) FindByID(ctx context.Context, id, userID int64) (*models.Category, error) {
	const q = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM categories WHERE id = $1 AND user_id = $2`
	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, userID int64, limit, offset int) ([]models.Category, error) {
	q := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM categories WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	const q = `
		UPDATE categories SET name=$1, description=$2, updated_at=NOW()
		WHERE id=$3 AND user_id=$4`
	_, err := r.db.ExecContext(ctx, q, category.Name, category.Description, category.ID, category.UserID)
	return err
}

func (r *categoryRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
