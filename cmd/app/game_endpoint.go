package main

import (
	"errors"
	"net/http"
	"strconv"

	"GameCatalogAPI/internal/model"
	"GameCatalogAPI/internal/services"
	"GameCatalogAPI/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// registerGameRoutes mounts game endpoints to the provided group.
//
//	GET    /games           -> list
//	GET    /games/:id       -> get
//	POST   /games           -> create
//	POST   /games/search    -> search by name substring and/or platform
//	POST   /games/populate  -> import the Top-100 feeds
//	PUT    /games/:id       -> full replace
//	DELETE /games/:id       -> hard delete
func registerGameRoutes(g *echo.Group, gs *services.GameService) {
	g.GET("/games", func(c echo.Context) error {
		list, err := gs.ListGames(c.Request().Context())
		if err != nil {
			return gameError(c, http.StatusInternalServerError, "error querying games", err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/games/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		game, err := gs.GetGame(c.Request().Context(), id)
		if err != nil {
			return gameError(c, http.StatusInternalServerError, "error getting game", err)
		}
		return c.JSON(http.StatusOK, game)
	})

	g.POST("/games", func(c echo.Context) error {
		var req model.GameInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		game, err := gs.CreateGame(c.Request().Context(), req)
		if err != nil {
			return gameError(c, http.StatusBadRequest, "error creating game", err)
		}
		return c.JSON(http.StatusOK, game)
	})

	g.POST("/games/search", func(c echo.Context) error {
		var req model.SearchInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		list, err := gs.SearchGames(c.Request().Context(), req)
		if err != nil {
			return gameError(c, http.StatusInternalServerError, "error searching games", err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.POST("/games/populate", func(c echo.Context) error {
		_, err := gs.Populate(c.Request().Context())
		if err != nil {
			var importErr *services.ImportError
			if errors.As(err, &importErr) {
				return gameError(c, http.StatusBadRequest, "error populating db with top 100 games", err)
			}
			return gameError(c, http.StatusBadGateway, "error fetching top 100 games", err)
		}
		return c.String(http.StatusOK, "ok")
	})

	g.PUT("/games/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		var req model.GameInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		game, err := gs.UpdateGame(c.Request().Context(), id, req)
		if err != nil {
			return gameError(c, http.StatusBadRequest, "error updating game", err)
		}
		return c.JSON(http.StatusOK, game)
	})

	g.DELETE("/games/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		if err := gs.DeleteGame(c.Request().Context(), id); err != nil {
			return gameError(c, http.StatusBadRequest, "error deleting game", err)
		}
		return c.JSON(http.StatusOK, map[string]int64{"id": id})
	})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// gameError logs err and writes it as {"error": ...}. Validation failures
// and missing games get 400 and 404; anything else gets status.
func gameError(c echo.Context, status int, msg string, err error) error {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		log.Warn().Err(err).Msg(msg)
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":  ve.Error(),
			"fields": ve.Fields,
		})
	case errors.Is(err, services.ErrGameNotFound):
		log.Warn().Err(err).Msg(msg)
		return c.JSON(http.StatusNotFound, map[string]string{"error": "game not found"})
	default:
		log.Error().Err(err).Msg(msg)
		return c.JSON(status, map[string]string{"error": err.Error()})
	}
}
