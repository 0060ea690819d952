package services

import (
	"context"
	"fmt"
	"strings"

	"GameCatalogAPI/internal/model"
	"GameCatalogAPI/internal/repository"
	"GameCatalogAPI/internal/validation"

	"github.com/rs/zerolog/log"
)

// ErrGameNotFound is returned for operations on an id that has no game.
var ErrGameNotFound = repository.ErrGameNotFound

// GameStore is the relational table of games. GameRepository and
// SQLiteGameRepository implement it.
type GameStore interface {
	CreateGame(ctx context.Context, in model.GameInput) (*model.Game, error)
	GetByID(ctx context.Context, id int64) (*model.Game, error)
	List(ctx context.Context) ([]model.Game, error)
	Search(ctx context.Context, f repository.GameFilter) ([]model.Game, error)
	UpdateGame(ctx context.Context, id int64, in model.GameInput) (*model.Game, error)
	DeleteGame(ctx context.Context, id int64) error
	BulkCreate(ctx context.Context, games []model.GameInput) (int64, error)
}

// GameSource supplies games for a bulk import.
type GameSource interface {
	FetchGames(ctx context.Context) ([]model.GameInput, error)
}

// ImportError marks a populate failure caused by the store rather than by
// the game source.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string { return "import games: " + e.Err.Error() }

func (e *ImportError) Unwrap() error { return e.Err }

type GameService struct {
	Repo      GameStore
	Source    GameSource
	Validator *validation.Validator
}

func NewGameService(r GameStore, src GameSource, v *validation.Validator) *GameService {
	return &GameService{Repo: r, Source: src, Validator: v}
}

func (s *GameService) ListGames(ctx context.Context) ([]model.Game, error) {
	return s.Repo.List(ctx)
}

func (s *GameService) GetGame(ctx context.Context, id int64) (*model.Game, error) {
	if id <= 0 {
		return nil, ErrGameNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// SearchGames filters by name substring and exact platform. With neither
// set it is the same as ListGames.
func (s *GameService) SearchGames(ctx context.Context, in model.SearchInput) ([]model.Game, error) {
	if err := s.Validator.Validate(&in); err != nil {
		return nil, err
	}
	f := repository.GameFilter{
		Name:     in.Name,
		Platform: strings.TrimSpace(in.Platform),
	}
	if f.IsEmpty() {
		return s.ListGames(ctx)
	}
	return s.Repo.Search(ctx, f)
}

func (s *GameService) CreateGame(ctx context.Context, in model.GameInput) (*model.Game, error) {
	if err := s.Validator.Validate(&in); err != nil {
		return nil, err
	}
	return s.Repo.CreateGame(ctx, in)
}

// UpdateGame replaces every user field of game id. Fields missing from in
// are cleared.
func (s *GameService) UpdateGame(ctx context.Context, id int64, in model.GameInput) (*model.Game, error) {
	if id <= 0 {
		return nil, ErrGameNotFound
	}
	if err := s.Validator.Validate(&in); err != nil {
		return nil, err
	}
	return s.Repo.UpdateGame(ctx, id, in)
}

func (s *GameService) DeleteGame(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrGameNotFound
	}
	return s.Repo.DeleteGame(ctx, id)
}

// Populate imports the Top-100 games from the source in one bulk insert.
// A source failure returns the source's error; a store failure returns
// *ImportError. Nothing is written unless every feed was fetched.
func (s *GameService) Populate(ctx context.Context) (int64, error) {
	games, err := s.Source.FetchGames(ctx)
	if err != nil {
		return 0, err
	}
	if len(games) == 0 {
		log.Warn().Msg("top100 feeds returned no games")
		return 0, nil
	}

	n, err := s.Repo.BulkCreate(ctx, games)
	if err != nil {
		return 0, &ImportError{Err: fmt.Errorf("bulk create %d games: %w", len(games), err)}
	}
	log.Info().Int64("games", n).Msg("populated games from top100 feeds")
	return n, nil
}
