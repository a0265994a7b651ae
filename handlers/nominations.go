// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Bensagra/meirim-backend/cliparse"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

type NominationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewNominationHandler(db *sql.DB, cfg cliparse.Config) *NominationHandler {
	return &NominationHandler{db: db, cfg: cfg}
}

// ListCategories handles GET /categories
// Returns active categories in display order.
func (h *NominationHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, description, active, display_order
		FROM nomination_category
		WHERE active = TRUE
		ORDER BY display_order, name
	`)
	if err != nil {
		slog.Error("failed to query categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	categories := []models.NominationCategory{}
	for rows.Next() {
		var c models.NominationCategory
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.Active, &c.DisplayOrder); err != nil {
			slog.Error("failed to scan category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		c.Description = description.String
		categories = append(categories, c)
	}

	middleware.JSONResponse(w, http.StatusOK, categories)
}

// CreateCategory handles POST /categories
func (h *NominationHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	categoryID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO nomination_category (id, name, description, active, display_order)
		VALUES ($1, $2, $3, $4, $5)
	`, categoryID, req.Name, req.Description, active, req.DisplayOrder)

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Category name already exists")
			return
		}
		slog.Error("failed to insert category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	slog.Info("category created", "category_id", categoryID, "name", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.NominationCategory{
		ID:           categoryID,
		Name:         req.Name,
		Description:  req.Description,
		Active:       active,
		DisplayOrder: req.DisplayOrder,
	})
}

// ListNominees handles GET /nominees
func (h *NominationHandler) ListNominees(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, name FROM nominee ORDER BY name`)
	if err != nil {
		slog.Error("failed to query nominees", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	nominees := []models.Nominee{}
	for rows.Next() {
		var n models.Nominee
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			slog.Error("failed to scan nominee", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		nominees = append(nominees, n)
	}

	middleware.JSONResponse(w, http.StatusOK, nominees)
}

// CreateNominee handles POST /nominees
func (h *NominationHandler) CreateNominee(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNomineeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	nomineeID := uuid.NewString()
	_, err := h.db.Exec(`INSERT INTO nominee (id, name) VALUES ($1, $2)`, nomineeID, req.Name)
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Nominee already exists")
			return
		}
		slog.Error("failed to insert nominee", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create nominee")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.Nominee{ID: nomineeID, Name: req.Name})
}

// CastVote handles POST /categories/:id/votes
// At most one nomination per (category, voter): a revote updates the nominee
// reference in place and reports was_update.
func (h *NominationHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if req.NomineeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nominee_id is required")
		return
	}

	// Eligibility: category must exist and be active
	var active bool
	err := h.db.QueryRow(`
		SELECT active FROM nomination_category WHERE id = $1
	`, categoryID).Scan(&active)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !active {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Category is not open for voting")
		return
	}

	var nomineeName string
	err = h.db.QueryRow(`
		SELECT name FROM nominee WHERE id = $1
	`, req.NomineeID).Scan(&nomineeName)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Nominee not found")
		return
	}
	if err != nil {
		slog.Error("failed to query nominee", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Upsert inside a transaction; the uniqueness constraint on
	// (category_id, voter_id) backstops concurrent revotes.
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	var voteID string
	err = tx.QueryRow(`
		SELECT id FROM nomination WHERE category_id = $1 AND voter_id = $2
	`, categoryID, req.VoterID).Scan(&voteID)

	wasUpdate := err != sql.ErrNoRows
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query nomination", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if wasUpdate {
		_, err = tx.Exec(`
			UPDATE nomination SET nominee_id = $1, cast_at = $2 WHERE id = $3
		`, req.NomineeID, now, voteID)
	} else {
		voteID = uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO nomination (id, category_id, nominee_id, voter_id, cast_at)
			VALUES ($1, $2, $3, $4, $5)
		`, voteID, categoryID, req.NomineeID, req.VoterID, now)
	}
	if err != nil {
		slog.Error("failed to write nomination", "error", err, "category_id", categoryID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register vote")
		return
	}

	slog.Info("vote cast", "category_id", categoryID, "vote_id", voteID, "was_update", wasUpdate)

	status := http.StatusCreated
	if wasUpdate {
		status = http.StatusOK
	}
	middleware.JSONResponse(w, status, models.CastVoteResponse{
		Vote: models.Nomination{
			ID:          voteID,
			CategoryID:  categoryID,
			NomineeID:   req.NomineeID,
			NomineeName: nomineeName,
			VoterID:     req.VoterID,
			CastAt:      now,
		},
		WasUpdate: wasUpdate,
	})
}

// CategoryResults handles GET /categories/:id/results
func (h *NominationHandler) CategoryResults(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category id is required")
		return
	}

	var name string
	err := h.db.QueryRow(`
		SELECT name FROM nomination_category WHERE id = $1
	`, categoryID).Scan(&name)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results, err := computeCategoryResults(h.db, categoryID, name)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "category_id", categoryID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// AllResults handles GET /nominations/results
// Returns the ranked results of every active category.
func (h *NominationHandler) AllResults(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name FROM nomination_category
		WHERE active = TRUE
		ORDER BY display_order, name
	`)
	if err != nil {
		slog.Error("failed to query categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	type cat struct{ id, name string }
	var cats []cat
	for rows.Next() {
		var c cat
		if err := rows.Scan(&c.id, &c.name); err != nil {
			slog.Error("failed to scan category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		cats = append(cats, c)
	}
	rows.Close()

	all := []models.CategoryResults{}
	for _, c := range cats {
		results, err := computeCategoryResults(h.db, c.id, c.name)
		if err != nil {
			slog.Error("failed to compute results", "error", err, "category_id", c.id)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
			return
		}
		all = append(all, results)
	}

	middleware.JSONResponse(w, http.StatusOK, all)
}

// ListVoterVotes handles GET /voters/:voterID/votes
func (h *NominationHandler) ListVoterVotes(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("voterID")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT n.id, n.category_id, n.nominee_id, m.name, n.voter_id, n.cast_at
		FROM nomination n
		JOIN nominee m ON m.id = n.nominee_id
		JOIN nomination_category c ON c.id = n.category_id
		WHERE n.voter_id = $1
		ORDER BY c.display_order, c.name
	`, voterID)
	if err != nil {
		slog.Error("failed to query voter votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	votes := []models.Nomination{}
	for rows.Next() {
		var v models.Nomination
		if err := rows.Scan(&v.ID, &v.CategoryID, &v.NomineeID, &v.NomineeName, &v.VoterID, &v.CastAt); err != nil {
			slog.Error("failed to scan nomination", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		votes = append(votes, v)
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}

// computeCategoryResults groups a category's votes by nominee and ranks them
// by descending count, ties keeping first-seen order.
func computeCategoryResults(db *sql.DB, categoryID, categoryName string) (models.CategoryResults, error) {
	rows, err := db.Query(`
		SELECT m.name
		FROM nomination n
		JOIN nominee m ON m.id = n.nominee_id
		WHERE n.category_id = $1
		ORDER BY n.cast_at, n.id
	`, categoryID)
	if err != nil {
		return models.CategoryResults{}, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return models.CategoryResults{}, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return models.CategoryResults{}, err
	}

	return models.CategoryResults{
		CategoryID:   categoryID,
		CategoryName: categoryName,
		TotalVotes:   len(names),
		Ranking:      rankNominees(names),
	}, nil
}

// rankNominees counts votes per nominee, preserving first-seen order for ties.
func rankNominees(names []string) []models.NomineeCount {
	indexOf := make(map[string]int)
	ranking := []models.NomineeCount{}

	for _, name := range names {
		if i, ok := indexOf[name]; ok {
			ranking[i].Votes++
			continue
		}
		indexOf[name] = len(ranking)
		ranking = append(ranking, models.NomineeCount{NomineeName: name, Votes: 1})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Votes > ranking[j].Votes
	})

	return ranking
}

// isUniqueViolation detects unique-constraint errors from both supported
// drivers without depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
