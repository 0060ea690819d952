package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"GameCatalogAPI/internal/model"
)

// sqliteBulkChunk keeps a chunk under SQLite's bind-variable limit.
const sqliteBulkChunk = 500

// SQLiteGameRepository stores games in an SQLite database. It mirrors
// GameRepository for local runs and tests.
type SQLiteGameRepository struct {
	DB *sql.DB
}

func NewSQLiteGameRepository(db *sql.DB) *SQLiteGameRepository {
	return &SQLiteGameRepository{DB: db}
}

func (r *SQLiteGameRepository) CreateGame(ctx context.Context, in model.GameInput) (*model.Game, error) {
	now := time.Now().UTC()
	args := append(inputArgs(in), now, now)
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO games (publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read game id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteGameRepository) GetByID(ctx context.Context, id int64) (*model.Game, error) {
	g, err := scanGame(r.DB.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &g, nil
}

func (r *SQLiteGameRepository) List(ctx context.Context) ([]model.Game, error) {
	return r.Search(ctx, GameFilter{})
}

func (r *SQLiteGameRepository) Search(ctx context.Context, f GameFilter) ([]model.Game, error) {
	where, args := f.Where(Question)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+gameColumns+` FROM games `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]model.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return list, nil
}

func (r *SQLiteGameRepository) UpdateGame(ctx context.Context, id int64, in model.GameInput) (*model.Game, error) {
	args := append(inputArgs(in), time.Now().UTC(), id)
	result, err := r.DB.ExecContext(ctx,
		`UPDATE games SET publisher_id = ?, name = ?, platform = ?, store_id = ?, bundle_id = ?,
		app_version = ?, is_published = ?, updated_at = ?
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	if n == 0 {
		return nil, ErrGameNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteGameRepository) DeleteGame(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if n == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *SQLiteGameRepository) BulkCreate(ctx context.Context, games []model.GameInput) (int64, error) {
	if len(games) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	var total int64
	for start := 0; start < len(games); start += sqliteBulkChunk {
		end := min(start+sqliteBulkChunk, len(games))
		query, args := buildBulkInsert(Question, games[start:end], now)
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("bulk insert games: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("bulk insert games: %w", err)
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return total, nil
}
