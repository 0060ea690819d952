package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"GameCatalogAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrGameNotFound is returned when no game has the requested id.
var ErrGameNotFound = errors.New("game not found")

// bulkInsertChunk bounds the rows per INSERT statement; PostgreSQL allows
// at most 65535 bind parameters per statement.
const bulkInsertChunk = 500

const gameColumns = `id, publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at`

// PgxPool is the subset of *pgxpool.Pool the repository uses.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// GameRepository stores games in PostgreSQL.
type GameRepository struct {
	DB PgxPool
}

func NewGameRepository(db PgxPool) *GameRepository {
	return &GameRepository{DB: db}
}

func (r *GameRepository) CreateGame(ctx context.Context, in model.GameInput) (*model.Game, error) {
	query := `INSERT INTO games (publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + gameColumns
	args := append(inputArgs(in), time.Now().UTC())

	g, err := scanGame(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &g, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id=$1`
	g, err := scanGame(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &g, nil
}

func (r *GameRepository) List(ctx context.Context) ([]model.Game, error) {
	return r.Search(ctx, GameFilter{})
}

func (r *GameRepository) Search(ctx context.Context, f GameFilter) ([]model.Game, error) {
	where, args := f.Where(Dollar)
	query := `SELECT ` + gameColumns + ` FROM games ` + where + ` ORDER BY id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

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

// UpdateGame overwrites all user fields of game id with in.
func (r *GameRepository) UpdateGame(ctx context.Context, id int64, in model.GameInput) (*model.Game, error) {
	query := `UPDATE games SET publisher_id=$1, name=$2, platform=$3, store_id=$4, bundle_id=$5,
		app_version=$6, is_published=$7, updated_at=$8
		WHERE id=$9
		RETURNING ` + gameColumns
	args := append(inputArgs(in), time.Now().UTC(), id)

	g, err := scanGame(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return &g, nil
}

func (r *GameRepository) DeleteGame(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM games WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	return nil
}

// BulkCreate inserts every game in one transaction and returns the number
// of rows written. Either all rows are stored or none are.
func (r *GameRepository) BulkCreate(ctx context.Context, games []model.GameInput) (int64, error) {
	if len(games) == 0 {
		return 0, nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	var total int64
	for start := 0; start < len(games); start += bulkInsertChunk {
		end := min(start+bulkInsertChunk, len(games))
		query, args := buildBulkInsert(Dollar, games[start:end], now)
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("bulk insert games: %w", err)
		}
		total += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return total, nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (model.Game, error) {
	var g model.Game
	err := row.Scan(&g.ID, &g.PublisherID, &g.Name, &g.Platform, &g.StoreID, &g.BundleID,
		&g.AppVersion, &g.IsPublished, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// inputArgs returns the seven user fields in column order, with nil
// pointers passed as SQL NULL.
func inputArgs(in model.GameInput) []any {
	return []any{
		nullString(in.PublisherID),
		nullString(in.Name),
		nullString(in.Platform),
		nullString(in.StoreID),
		nullString(in.BundleID),
		nullString(in.AppVersion),
		nullBool(in.IsPublished),
	}
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

// buildBulkInsert renders one multi-row INSERT for games.
func buildBulkInsert(ph Placeholder, games []model.GameInput, now time.Time) (string, []any) {
	const cols = 9
	var sb strings.Builder
	args := make([]any, 0, len(games)*cols)
	sb.WriteString("INSERT INTO games (publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at) VALUES ")
	for i, g := range games {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(")
		for c := 1; c <= cols; c++ {
			if c > 1 {
				sb.WriteString(",")
			}
			sb.WriteString(ph(i*cols + c))
		}
		sb.WriteString(")")
		args = append(args, inputArgs(g)...)
		args = append(args, now, now)
	}
	return sb.String(), args
}
