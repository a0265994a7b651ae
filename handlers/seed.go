// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Bensagra/meirim-backend/cliparse"
	appdb "github.com/Bensagra/meirim-backend/db"
	"github.com/Bensagra/meirim-backend/middleware"
	"github.com/Bensagra/meirim-backend/models"
)

type SeedHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSeedHandler(db *sql.DB, cfg cliparse.Config) *SeedHandler {
	return &SeedHandler{db: db, cfg: cfg}
}

// Seed handles POST /seed
// Loads the built-in question, category, and nominee fixtures. Safe to call
// repeatedly: existing rows are left alone and the counts report only what
// was actually inserted.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	questions, categories, nominees, err := appdb.Seed(h.db)
	if err != nil {
		slog.Error("failed to seed database", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to seed database")
		return
	}

	slog.Info("database seeded", "questions", questions,
		"categories", categories, "nominees", nominees)

	middleware.JSONResponse(w, http.StatusOK, models.SeedResponse{
		Message:           "Seed complete",
		QuestionsCreated:  questions,
		CategoriesCreated: categories,
		NomineesCreated:   nominees,
	})
}
