// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/openagora/agora-server/auth"
	"github.com/openagora/agora-server/cliparse"
	"github.com/openagora/agora-server/middleware"
	"github.com/openagora/agora-server/models"
	"github.com/openagora/agora-server/wikipop"
)

type LocationHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	wiki *wikipop.Client
}

func NewLocationHandler(db *sql.DB, cfg cliparse.Config) *LocationHandler {
	return &LocationHandler{
		db:   db,
		cfg:  cfg,
		wiki: wikipop.NewClient(cfg.WikipediaBaseURL),
	}
}

// CreateLocation handles POST /locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLocationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.WikipediaTitle == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "wikipedia_title is required")
		return
	}

	locationID := auth.NewRowID()
	_, err := h.db.Exec(`
		INSERT INTO location (id, name, country, wikipedia_title, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, locationID, req.Name, nullString(req.Country), req.WikipediaTitle, time.Now())
	if err != nil {
		slog.Error("failed to insert location", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create location")
		return
	}

	slog.Info("location created", "location_id", locationID, "name", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, map[string]string{
		"location_id": locationID,
	})
}

// GetLocation handles GET /locations/:id
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	locationID := r.PathValue("id")
	if locationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "location_id is required")
		return
	}

	loc, err := h.loadLocation(locationID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Location not found")
		return
	}
	if err != nil {
		slog.Error("failed to query location", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.LocationResponse{Location: loc}
	if loc.Population != nil {
		resp.PopulationDisplay = humanize.Comma(*loc.Population)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// EnrichLocation handles POST /locations/:id/enrich
//
// Fetches the location's Wikipedia article and extracts a population
// figure from its infobox. When no usable figure is found the stored
// population stays untouched; a zero or negative value is never
// written, nil is the only representation of "unknown".
func (h *LocationHandler) EnrichLocation(w http.ResponseWriter, r *http.Request) {
	locationID := r.PathValue("id")
	if locationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "location_id is required")
		return
	}

	loc, err := h.loadLocation(locationID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Location not found")
		return
	}
	if err != nil {
		slog.Error("failed to query location", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	wikitext, err := h.wiki.FetchWikitext(r.Context(), loc.WikipediaTitle)
	if errors.Is(err, wikipop.ErrPageMissing) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Wikipedia page not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch wikitext", "error", err, "title", loc.WikipediaTitle)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to fetch Wikipedia page")
		return
	}

	population, ok := wikipop.ExtractPopulation(wikitext)
	if !ok {
		slog.Info("no population found", "location_id", locationID, "title", loc.WikipediaTitle)
		middleware.JSONResponse(w, http.StatusOK, models.EnrichLocationResponse{
			LocationID: locationID,
			Population: loc.Population,
			Updated:    false,
		})
		return
	}

	_, err = h.db.Exec(`
		UPDATE location SET population = $1, population_fetched_at = $2 WHERE id = $3
	`, population, time.Now(), locationID)
	if err != nil {
		slog.Error("failed to update population", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update location")
		return
	}

	slog.Info("population updated", "location_id", locationID, "population", population)

	middleware.JSONResponse(w, http.StatusOK, models.EnrichLocationResponse{
		LocationID: locationID,
		Population: &population,
		Updated:    true,
	})
}

func (h *LocationHandler) loadLocation(locationID string) (models.Location, error) {
	var loc models.Location
	var country sql.NullString
	err := h.db.QueryRow(`
		SELECT id, name, country, wikipedia_title, population, population_fetched_at, created_at
		FROM location WHERE id = $1
	`, locationID).Scan(&loc.ID, &loc.Name, &country, &loc.WikipediaTitle,
		&loc.Population, &loc.PopulationFetchedAt, &loc.CreatedAt)
	loc.Country = country.String
	return loc, err
}
