package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"GameCatalogAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var gameColumnNames = []string{
	"id", "publisher_id", "name", "platform", "store_id", "bundle_id",
	"app_version", "is_published", "created_at", "updated_at",
}

func newPgMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// anyArgs matches n bind parameters of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func chessRow(rows *pgxmock.Rows, id int64) *pgxmock.Rows {
	return rows.AddRow(id, strPtr("p1"), strPtr("Chess"), strPtr("android"), strPtr("s1"),
		strPtr("b1"), strPtr("1.0"), boolPtr(true), fixedNow, fixedNow)
}

func TestGameRepo_CreateGame(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectQuery(`INSERT INTO games .* RETURNING id`).
		WithArgs("p1", "Chess", "android", "s1", "b1", "1.0", true, pgxmock.AnyArg()).
		WillReturnRows(chessRow(pgxmock.NewRows(gameColumnNames), 1))

	g, err := NewGameRepository(mock).CreateGame(context.Background(), chessInput())
	require.NoError(t, err)
	assert.EqualValues(t, 1, g.ID)
	assert.Equal(t, "Chess", *g.Name)
	assert.Equal(t, fixedNow, g.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_GetByIDNotFound(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectQuery(`SELECT .* FROM games WHERE id=\$1`).
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewGameRepository(mock).GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_SearchBuildsFilter(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectQuery(`SELECT .* FROM games WHERE name LIKE \$1 ESCAPE '\\' AND platform = \$2 ORDER BY id`).
		WithArgs("%Chess%", "android").
		WillReturnRows(chessRow(pgxmock.NewRows(gameColumnNames), 3))

	list, err := NewGameRepository(mock).Search(context.Background(), GameFilter{Name: "Chess", Platform: "android"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 3, list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_ListEmpty(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectQuery(`SELECT .* FROM games\s+ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(gameColumnNames))

	list, err := NewGameRepository(mock).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_UpdateGameNotFound(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectQuery(`UPDATE games SET .* WHERE id=\$9`).
		WithArgs(nil, "B", nil, nil, nil, nil, nil, pgxmock.AnyArg(), int64(8)).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewGameRepository(mock).UpdateGame(context.Background(), 8, model.GameInput{Name: strPtr("B")})
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_DeleteGame(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectExec(`DELETE FROM games WHERE id=\$1`).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM games WHERE id=\$1`).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewGameRepository(mock)
	require.NoError(t, repo.DeleteGame(context.Background(), 2))
	assert.ErrorIs(t, repo.DeleteGame(context.Background(), 2), ErrGameNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_BulkCreateCommits(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO games .* VALUES \(\$1,.*\),\(\$10,`).
		WithArgs(anyArgs(18)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := NewGameRepository(mock).BulkCreate(context.Background(), []model.GameInput{chessInput(), chessInput()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_BulkCreateRollsBack(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO games`).
		WithArgs(anyArgs(9)...).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	_, err := NewGameRepository(mock).BulkCreate(context.Background(), []model.GameInput{chessInput()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_BulkCreateSplitsChunks(t *testing.T) {
	t.Parallel()
	mock := newPgMock(t)

	games := make([]model.GameInput, bulkInsertChunk+1)
	for i := range games {
		games[i] = chessInput()
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO games`).
		WithArgs(anyArgs(bulkInsertChunk * 9)...).
		WillReturnResult(pgxmock.NewResult("INSERT", bulkInsertChunk))
	mock.ExpectExec(`INSERT INTO games`).
		WithArgs(anyArgs(9)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := NewGameRepository(mock).BulkCreate(context.Background(), games)
	require.NoError(t, err)
	assert.EqualValues(t, len(games), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
