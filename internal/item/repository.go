package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/apperr"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ownerID int64, name, description string, available bool) (*Item, error) {
	query := `
		INSERT INTO items (name, description, available, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, available, owner_id, created_at
	`

	var it Item
	if err := r.db.GetContext(ctx, &it, query, name, description, available, ownerID); err != nil {
		return nil, fmt.Errorf("create item for owner %d: %w", ownerID, err)
	}

	return &it, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query := `
		SELECT id, name, description, available, owner_id, created_at
		FROM items
		WHERE id = $1
	`

	var it Item
	err := r.db.GetContext(ctx, &it, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}

	return &it, nil
}
